package unmarshal

import (
	"reflect"
	"unsafe"

	"github.com/viant/typedjson/automaton"
	"github.com/viant/typedjson/introspect"
	"github.com/viant/typedjson/jsonerr"
	"github.com/viant/typedjson/reader"
)

// memberSet tracks which members were seen in one object.
type memberSet struct {
	bits  uint64
	large []bool
}

func (s *memberSet) add(idx, size int) bool {
	if size <= 64 {
		mask := uint64(1) << uint(idx)
		seen := s.bits&mask != 0
		s.bits |= mask
		return seen
	}
	if s.large == nil {
		s.large = make([]bool, size)
	}
	seen := s.large[idx]
	s.large[idx] = true
	return seen
}

type objectRoutine struct {
	plan     *introspect.ObjectPlan
	members  []*introspect.Member
	fns      []Func
	matcher  automaton.Matcher
	unknown  UnknownFieldPolicy
	dupes    DuplicateKeyPolicy
	maxDepth int
	typeName string
}

func (c *compiler) object(d *introspect.Descriptor) (Func, error) {
	plan := d.Object
	r := &objectRoutine{
		plan:     plan,
		members:  plan.Members,
		fns:      make([]Func, len(plan.Members)),
		matcher:  automaton.New(plan.Names(), automaton.Options{IgnoreCase: c.cfg.IgnoreCase}, c.cfg.Matching),
		unknown:  c.cfg.Unknown,
		dupes:    c.cfg.Duplicates,
		maxDepth: c.maxDepth,
		typeName: d.Type.String(),
	}
	for i, m := range plan.Members {
		fn, err := c.compile(m.Descriptor, hints{enum: m.Enum, timeLayout: m.TimeLayout})
		if err != nil {
			return nil, err
		}
		r.fns[i] = fn
	}
	if plan.Constructor != nil {
		return c.valueNull(r.construct), nil
	}
	return c.valueNull(r.read), nil
}

// read reads the members of one object into holder.
func (r *objectRoutine) read(cur *reader.Cursor, holder unsafe.Pointer, depth int) error {
	if depth+1 > r.maxDepth {
		return cur.DepthError(r.maxDepth)
	}
	if err := cur.Expect('{'); err != nil {
		return err
	}
	b, err := cur.Peek()
	if err != nil {
		return err
	}
	if b == '}' {
		cur.Pos++
		return nil
	}
	var seen memberSet
	var marker unsafe.Pointer
	for {
		cur.SkipWS()
		start := cur.Pos
		idx, err := r.matcher.Match(cur)
		if err != nil {
			return err
		}
		keyEnd := cur.Pos
		if err = cur.Expect(':'); err != nil {
			return err
		}
		if idx == automaton.NoMatch {
			if r.unknown == ErrorOnUnknown {
				return jsonerr.New(jsonerr.UnknownMember, start, "unknown member %s of %s", cur.Data[start:keyEnd], r.typeName)
			}
			if err = cur.Skip(depth+1, r.maxDepth); err != nil {
				return err
			}
		} else {
			if r.dupes == ErrorOnDuplicate && seen.add(idx, len(r.members)) {
				return jsonerr.New(jsonerr.DuplicateMember, start, "duplicate member %s of %s", cur.Data[start:keyEnd], r.typeName)
			}
			m := r.members[idx]
			if err = r.fns[idx](cur, m.Target(holder), depth+1); err != nil {
				return err
			}
			if m.Presence != nil {
				if marker == nil {
					marker = r.plan.Presence.Ensure(holder)
				}
				m.Presence.SetBool(marker, true)
			}
		}
		done, err := next(cur, '}')
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// construct reads members into the constructor argument struct, then builds
// the value with the registered constructor.
func (r *objectRoutine) construct(cur *reader.Cursor, ptr unsafe.Pointer, depth int) error {
	spec := r.plan.Constructor
	start := cur.Pos
	args := reflect.New(r.plan.Args)
	if err := r.read(cur, args.UnsafePointer(), depth); err != nil {
		return err
	}
	argsValue := args.Elem()
	in := make([]reflect.Value, argsValue.NumField())
	for i := range in {
		in[i] = argsValue.Field(i)
	}
	out := spec.Fn.Call(in)
	if spec.HasError && !out[1].IsNil() {
		err := jsonerr.Wrap(jsonerr.ConstructorFailed, start, out[1].Interface().(error), "constructor rejected members")
		err.Type = r.typeName
		return err
	}
	reflect.NewAt(r.plan.Type, ptr).Elem().Set(out[0])
	return nil
}

package directive

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceToken = iota
	commaTerminatorToken
	eqTerminatorToken
	scopeBlockToken
	quotedToken
)

var (
	whitespaceMatcher      = parsly.NewToken(whitespaceToken, " ", matcher.NewWhiteSpace())
	commaTerminatorMatcher = parsly.NewToken(commaTerminatorToken, "comma", matcher.NewTerminator(',', true))
	eqTerminatorMatcher    = parsly.NewToken(eqTerminatorToken, "=", matcher.NewTerminator('=', true))
	scopeBlockMatcher      = parsly.NewToken(scopeBlockToken, "{ .... }", matcher.NewBlock('{', '}', '\\'))
	quotedMatcher          = parsly.NewToken(quotedToken, "' .... '", matcher.NewQuote('\'', '\\'))
)

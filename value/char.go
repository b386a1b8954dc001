package value

// Char is a single character carried in JSON as a one character string.
type Char rune

func (c Char) String() string { return string(rune(c)) }

package canonical

// RuleID identifies the canonicalization rule set. It is recorded next to
// every published root so verifiers can reproduce leaf digests.
const RuleID = "sorted-keys-json-utf8-v1"

// RuleDescription is the human readable form of RuleID.
const RuleDescription = "Recursive key sort, no whitespace, UTF-8. Arrays preserve order."

// Value is one node of a record. The set of implementations is closed:
// Object, Array, String, Number, Bool and Null.
type Value interface {
	canonicalValue()
}

type Object map[string]Value

type Array []Value

type String string

type Number float64

type Bool bool

type Null struct{}

func (Object) canonicalValue() {}
func (Array) canonicalValue()  {}
func (String) canonicalValue() {}
func (Number) canonicalValue() {}
func (Bool) canonicalValue()   {}
func (Null) canonicalValue()   {}

// MarshalJSON keeps Null a JSON null when values pass through encoding/json.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

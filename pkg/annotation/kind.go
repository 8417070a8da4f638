package annotation

import "fmt"

// Kind selects which payload key an annotation persists under.
type Kind uint8

const (
	// KindComment is a free-form comment attached to an address.
	KindComment Kind = iota
	// KindLabel names an address.
	KindLabel
)

// kindKeys is both the record type tag and the payload key for each kind.
var kindKeys = [...]string{
	KindComment: "comment",
	KindLabel:   "label",
}

// Key returns the serialization key and type tag of k.
func (k Kind) Key() string {
	if int(k) < len(kindKeys) {
		return kindKeys[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) String() string {
	return k.Key()
}

// ParseKind maps a record type tag back to a Kind.
func ParseKind(tag string) (Kind, bool) {
	for k, key := range kindKeys {
		if key == tag {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindComment, KindLabel}
}

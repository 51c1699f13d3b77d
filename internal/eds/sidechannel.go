package eds

import (
	"fmt"
	"strings"
)

const (
	fieldSep = ",,"
	valueSep = "=="
)

// Side channel keys.
const (
	KeyTable       = "table"
	KeyMessageID   = "messageID"
	KeyDataType    = "dataType"
	KeyArraySize   = "arraySize"
	KeyBitLength   = "bitLength"
	KeyEnumeration = "enumeration"
	KeyUnits       = "units"
	KeyMinimum     = "minimum"
	KeyMaximum     = "maximum"
	KeyRate        = "rate"
)

type pair struct {
	key, value string
}

func validValue(v string) bool {
	return !strings.Contains(v, fieldSep) && !strings.Contains(v, valueSep) &&
		!strings.HasPrefix(v, ",") && !strings.HasSuffix(v, ",")
}

// encodeSideChannel joins the non-empty pairs. The caller fills in the table
// and variable of a returned *SideChannelError.
func encodeSideChannel(pairs ...pair) (string, *SideChannelError) {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		if !validValue(p.value) {
			return "", &SideChannelError{Key: p.key, Value: p.value}
		}
		parts = append(parts, p.key+valueSep+p.value)
	}
	return strings.Join(parts, fieldSep), nil
}

// decodeSideChannel parses "k==v,,k==v". Every field must carry a key and
// keys may not repeat.
func decodeSideChannel(s string) (map[string]string, error) {
	out := map[string]string{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, f := range strings.Split(s, fieldSep) {
		kv := strings.SplitN(f, valueSep, 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("side channel field %q is not key%svalue", f, valueSep)
		}
		if _, dup := out[kv[0]]; dup {
			return nil, fmt.Errorf("side channel key %q repeated", kv[0])
		}
		out[kv[0]] = kv[1]
	}
	return out, nil
}

package logx

import (
	"halcode-go/errcode"
	"halcode-go/x/conv"
)

// errAttr is what Err returns on TinyGo builds.
type errAttr struct{ err error }

// appendRecord renders one line as
// "LEVEL component=c msg=... key=value ... err.code=c err.msg=...".
// args are key/value pairs; an errAttr may stand alone in a key position.
func appendRecord(dst []byte, level string, c Component, msg string, args []any) []byte {
	dst = append(dst, level...)
	dst = append(dst, " component="...)
	dst = append(dst, string(c)...)
	dst = append(dst, " msg="...)
	dst = appendText(dst, msg)
	for i := 0; i < len(args); i++ {
		if e, ok := args[i].(errAttr); ok {
			dst = appendErr(dst, e.err)
			continue
		}
		key, ok := args[i].(string)
		if !ok || i+1 == len(args) {
			dst = append(dst, " !BADKEY="...)
			dst = appendValue(dst, args[i])
			continue
		}
		i++
		dst = append(dst, ' ')
		dst = append(dst, key...)
		dst = append(dst, '=')
		dst = appendValue(dst, args[i])
	}
	return dst
}

func appendErr(dst []byte, err error) []byte {
	if err == nil {
		return dst
	}
	dst = append(dst, " err.code="...)
	dst = append(dst, string(errcode.Of(err))...)
	dst = append(dst, " err.msg="...)
	return appendText(dst, err.Error())
}

func appendValue(dst []byte, v any) []byte {
	switch v := v.(type) {
	case string:
		return appendText(dst, v)
	case Component:
		return append(dst, string(v)...)
	case bool:
		if v {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case uint8:
		return conv.AppendUint(dst, uint32(v))
	case uint16:
		return conv.AppendUint(dst, uint32(v))
	case uint32:
		return conv.AppendUint(dst, v)
	case uint:
		return conv.AppendUint(dst, uint32(v))
	case int:
		return appendInt(dst, int64(v))
	case int32:
		return appendInt(dst, int64(v))
	case int64:
		return appendInt(dst, v)
	case errAttr:
		return appendErr(dst, v.err)
	case error:
		return appendText(dst, v.Error())
	case nil:
		return append(dst, "<nil>"...)
	}
	return append(dst, '?')
}

func appendInt(dst []byte, n int64) []byte {
	if n < 0 {
		dst = append(dst, '-')
		n = -n
	}
	return conv.AppendUint(dst, uint32(n))
}

// appendText quotes s when it is empty or holds a space, quote or '='.
func appendText(dst []byte, s string) []byte {
	quote := s == ""
	for i := 0; i < len(s) && !quote; i++ {
		quote = s[i] == ' ' || s[i] == '"' || s[i] == '='
	}
	if !quote {
		return append(dst, s...)
	}
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			dst = append(dst, '\\')
		}
		dst = append(dst, s[i])
	}
	return append(dst, '"')
}

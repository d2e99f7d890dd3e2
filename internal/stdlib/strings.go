package stdlib

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"

	"cbot/internal/diag"
	"cbot/internal/natives"
	"cbot/internal/types"
	"cbot/internal/value"
)

// Строки режутся по рунам после NFC-нормализации.
func runes(v *value.Variable) []rune {
	return []rune(norm.NFC.String(v.AsString()))
}

func intResult(c *natives.Call, n int) diag.Code {
	i, err := safecast.Conv[int32](n)
	if err != nil {
		return diag.RunOutOfArray
	}
	return c.Return(value.FromInt(i))
}

// clamp limits n to [0, max].
func clamp(n int32, limit int) int {
	switch {
	case n < 0:
		return 0
	case int(n) > limit:
		return limit
	}
	return int(n)
}

func registerStrings(reg *natives.Registry) {
	reg.Register("strlen", func(c *natives.Call) (bool, diag.Code) {
		return true, intResult(c, len(runes(c.Arg(0))))
	}, natives.Sig(types.Int, types.String))

	reg.Register("strleft", func(c *natives.Call) (bool, diag.Code) {
		rs := runes(c.Arg(0))
		n := clamp(c.Arg(1).AsInt(), len(rs))
		return true, c.Return(value.FromString(string(rs[:n])))
	}, natives.Sig(types.String, types.String, types.Int))

	reg.Register("strright", func(c *natives.Call) (bool, diag.Code) {
		rs := runes(c.Arg(0))
		n := clamp(c.Arg(1).AsInt(), len(rs))
		return true, c.Return(value.FromString(string(rs[len(rs)-n:])))
	}, natives.Sig(types.String, types.String, types.Int))

	reg.Register("strmid", func(c *natives.Call) (bool, diag.Code) {
		rs := runes(c.Arg(0))
		from := clamp(c.Arg(1).AsInt(), len(rs))
		to := len(rs)
		if n := c.Arg(2); n != nil {
			to = from + clamp(n.AsInt(), len(rs)-from)
		}
		return true, c.Return(value.FromString(string(rs[from:to])))
	}, natives.SigOpt(types.String, 2, types.String, types.Int, types.Int))

	// strfind returns the rune index of the first match or -1.
	reg.Register("strfind", func(c *natives.Call) (bool, diag.Code) {
		s := norm.NFC.String(c.Arg(0).AsString())
		sub := norm.NFC.String(c.Arg(1).AsString())
		i := strings.Index(s, sub)
		if i < 0 {
			return true, c.Return(value.FromInt(-1))
		}
		return true, intResult(c, len([]rune(s[:i])))
	}, natives.Sig(types.Int, types.String, types.String))

	// strval parses a leading number; garbage yields 0.
	reg.Register("strval", func(c *natives.Call) (bool, diag.Code) {
		return true, c.Return(value.FromFloat(parseLeadingFloat(c.Arg(0).AsString())))
	}, natives.Sig(types.Float, types.String))

	reg.Register("strupper", func(c *natives.Call) (bool, diag.Code) {
		return true, c.Return(value.FromString(strings.ToUpper(norm.NFC.String(c.Arg(0).AsString()))))
	}, natives.Sig(types.String, types.String))

	reg.Register("strlower", func(c *natives.Call) (bool, diag.Code) {
		return true, c.Return(value.FromString(strings.ToLower(norm.NFC.String(c.Arg(0).AsString()))))
	}, natives.Sig(types.String, types.String))
}

func parseLeadingFloat(s string) float32 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot := false, false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '-' || r == '+') && i == 0:
		default:
			break scan
		}
		end = i + 1
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(s[:end], 32)
	if err != nil {
		return 0
	}
	return float32(f)
}

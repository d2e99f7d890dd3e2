package token

var keywords = map[string]Kind{
	"if":           KwIf,
	"else":         KwElse,
	"while":        KwWhile,
	"do":           KwDo,
	"for":          KwFor,
	"repeat":       KwRepeat,
	"break":        KwBreak,
	"continue":     KwContinue,
	"return":       KwReturn,
	"switch":       KwSwitch,
	"case":         KwCase,
	"default":      KwDefault,
	"try":          KwTry,
	"catch":        KwCatch,
	"finally":      KwFinally,
	"throw":        KwThrow,
	"new":          KwNew,
	"this":         KwThis,
	"super":        KwSuper,
	"class":        KwClass,
	"extends":      KwExtends,
	"public":       KwPublic,
	"private":      KwPrivate,
	"protected":    KwProtected,
	"static":       KwStatic,
	"extern":       KwExtern,
	"synchronized": KwSynchronized,
	"sizeof":       KwSizeof,
	"void":         KwVoid,
	"int":          KwInt,
	"float":        KwFloat,
	"bool":         KwBool,
	"boolean":      KwBool,
	"string":       KwString,
	"true":         KwTrue,
	"false":        KwFalse,
	"null":         KwNull,
	"nan":          KwNan,
}

// LookupKeyword returns the keyword kind for ident. Keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

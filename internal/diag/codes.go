package diag

import (
	"fmt"
)

type Code uint16

const (
	// OK означает отсутствие ошибки
	OK Code = 0

	// Лексические
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexUnterminatedComment Code = 1003
	LexBadNumber           Code = 1004
	LexBadEscape           Code = 1005

	// Синтаксические
	SynUnexpectedToken  Code = 2001
	SynExpectOpenParen  Code = 2002
	SynExpectCloseParen Code = 2003
	SynExpectSemicolon  Code = 2004
	SynExpectOpenBrace  Code = 2005
	SynExpectCloseBrace Code = 2006
	SynExpectCloseBrack Code = 2007
	SynExpectIdent      Code = 2008
	SynExpectType       Code = 2009
	SynExpectExpression Code = 2010
	SynExpectColon      Code = 2011
	SynExpectWhile      Code = 2012
	SynCaseOutside      Code = 2013
	SynElseWithoutIf    Code = 2014
	SynExpectCatch      Code = 2015
	SynBadLabel         Code = 2016

	// Семантические
	SemUndefVar       Code = 3001
	SemRedefVar       Code = 3002
	SemRedefFunc      Code = 3003
	SemUnknownFunc    Code = 3004
	SemBadType        Code = 3005
	SemBadParams      Code = 3006
	SemAmbiguousCall  Code = 3007
	SemNoReturn       Code = 3008
	SemBadReturn      Code = 3009
	SemBreakOutside   Code = 3010
	SemUndefLabel     Code = 3011
	SemUndefClass     Code = 3012
	SemUndefField     Code = 3013
	SemUndefMethod    Code = 3014
	SemNotArray       Code = 3015
	SemBadIndex       Code = 3016
	SemNotAssignable  Code = 3017
	SemNotClass       Code = 3018
	SemRedefClass     Code = 3019
	SemPrivate        Code = 3020
	SemBadNew         Code = 3021
	SemBadArrayInit   Code = 3022
	SemDuplicateCase  Code = 3023
	SemThisOutside    Code = 3024
	SemVoidValue      Code = 3025
	SemCaseNotConst   Code = 3026
	SemBadOperand     Code = 3027
	SemBadCatch       Code = 3028
	SemNoParent       Code = 3029
	SemTooManyParams  Code = 3030
	SemBadNativeCheck Code = 3031

	// Ввод-вывод
	IOLoadFileError Code = 4001

	// Ошибки исполнения
	RunZeroDiv       Code = 6001
	RunNotInit       Code = 6002
	RunBadThrow      Code = 6003
	RunNoRun         Code = 6004
	RunUndefCall     Code = 6005
	RunNotClass      Code = 6006
	RunNullPointer   Code = 6007
	RunOutOfArray    Code = 6008
	RunStackOverflow Code = 6009
	RunDeletedObject Code = 6010
	RunBadRestore    Code = 6011
	RunUndefFunc     Code = 6012
	RunBadParam      Code = 6013
	RunArrayTooLarge Code = 6014

	// Ошибки хоста (нативные действия робота)
	HostNoEnergy Code = 7001
	HostBlocked  Code = 7002
	HostBadGoal  Code = 7003
	HostNoTarget Code = 7004
)

var codeDescription = map[Code]string{
	OK:                     "OK",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedString:  "Unterminated string",
	LexUnterminatedComment: "Unterminated block comment",
	LexBadNumber:           "Bad number",
	LexBadEscape:           "Bad escape sequence",
	SynUnexpectedToken:     "Unexpected token",
	SynExpectOpenParen:     "Opening parenthesis missing",
	SynExpectCloseParen:    "Closing parenthesis missing",
	SynExpectSemicolon:     "Semicolon missing",
	SynExpectOpenBrace:     "Opening brace missing",
	SynExpectCloseBrace:    "Closing brace missing",
	SynExpectCloseBrack:    "Closing bracket missing",
	SynExpectIdent:         "Identifier expected",
	SynExpectType:          "Type declaration missing",
	SynExpectExpression:    "Expression expected",
	SynExpectColon:         "Colon missing",
	SynExpectWhile:         "Keyword \"while\" missing",
	SynCaseOutside:         "Instruction \"case\" outside a switch",
	SynElseWithoutIf:       "\"else\" without corresponding \"if\"",
	SynExpectCatch:         "\"catch\" or \"finally\" missing",
	SynBadLabel:            "Label expected",
	SemUndefVar:            "Variable not declared",
	SemRedefVar:            "Variable declared twice",
	SemRedefFunc:           "Function already exists",
	SemUnknownFunc:         "Unknown function",
	SemBadType:             "Type mismatch",
	SemBadParams:           "Wrong type or number of parameters",
	SemAmbiguousCall:       "Ambiguous call to overloaded function",
	SemNoReturn:            "Missing return",
	SemBadReturn:           "Bad return value",
	SemBreakOutside:        "break or continue outside a loop",
	SemUndefLabel:          "Undefined label",
	SemUndefClass:          "Undefined class",
	SemUndefField:          "Unknown field",
	SemUndefMethod:         "Unknown method",
	SemNotArray:            "Not an array",
	SemBadIndex:            "Index must be an integer",
	SemNotAssignable:       "Left side is not assignable",
	SemNotClass:            "Not a class instance",
	SemRedefClass:          "Class already exists",
	SemPrivate:             "Private element",
	SemBadNew:              "Bad use of new",
	SemBadArrayInit:        "Bad array initializer",
	SemDuplicateCase:       "Duplicate case value",
	SemThisOutside:         "\"this\" outside a method",
	SemVoidValue:           "Void value used",
	SemCaseNotConst:        "Case value must be a constant",
	SemBadOperand:          "Bad operand type",
	SemBadCatch:            "Catch condition must be int or bool",
	SemNoParent:            "Class has no parent",
	SemTooManyParams:       "Too many parameters",
	SemBadNativeCheck:      "Native call rejected",
	RunZeroDiv:             "Division by zero",
	RunNotInit:             "Variable not initialized",
	RunBadThrow:            "Negative value rejected by throw",
	RunNoRun:               "No function running",
	RunUndefCall:           "Calling an unknown function",
	RunNotClass:            "This class does not exist",
	RunNullPointer:         "Null pointer",
	RunOutOfArray:          "Index out of array bounds",
	RunStackOverflow:       "Stack overflow",
	RunDeletedObject:       "Illegal object",
	RunBadRestore:          "Malformed persisted state",
	RunUndefFunc:           "Entry function not found",
	RunBadParam:            "Bad argument value",
	RunArrayTooLarge:       "Array too large",
	IOLoadFileError:        "Cannot load file",
	HostNoEnergy:           "Not enough energy",
	HostBlocked:            "Path blocked",
	HostBadGoal:            "Goal unreachable",
	HostNoTarget:           "No target",
}

// IsCompile reports whether c belongs to the compile-time range.
func (c Code) IsCompile() bool { return c >= 1000 && c < 4000 }

// IsRuntime reports whether c is an engine or host runtime error.
func (c Code) IsRuntime() bool { return c >= 6000 && c < 8000 }

func (c Code) ID() string {
	switch ic := int(c); {
	case ic == 0:
		return "OK"
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("HST%04d", ic)
	}
	return fmt.Sprintf("USR%04d", int(c))
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return fmt.Sprintf("User error %d", int(c))
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

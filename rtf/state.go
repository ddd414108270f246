package rtf

import "github.com/tsawler/rtfkit/model"

// destination says where the tokens of a group go.
type destination int

const (
	destBody destination = iota
	destSkip
	destFontTable
	destFontAlt
	destColorTable
	destStyleSheet
	destInfo
	destInfoText
	destInfoTime
	destGenerator
	destPict
	destObject
	destObjClass
	destObjName
	destObjData
	destUserProps
	destPropName
	destStaticVal
	destUpr
)

func (d destination) String() string {
	switch d {
	case destBody:
		return "body"
	case destSkip:
		return "skip"
	case destFontTable, destFontAlt:
		return "fonttbl"
	case destColorTable:
		return "colortbl"
	case destStyleSheet:
		return "stylesheet"
	case destInfo, destInfoText, destInfoTime, destUserProps, destPropName, destStaticVal:
		return "info"
	case destGenerator:
		return "generator"
	case destPict:
		return "pict"
	case destObject, destObjClass, destObjName, destObjData:
		return "object"
	case destUpr:
		return "upr"
	default:
		return "unknown"
	}
}

// scope is the state pushed for each group.
type scope struct {
	style model.Style
	dest  destination
	// field is the info field or timestamp a destInfoText or destInfoTime
	// group fills.
	field string
	// uprParent is the destination a \*\ud group inside \upr restores.
	uprParent destination
	// uc is the number of fallback characters after \uN.
	uc int
	// inTable is set by \intbl and cleared by \pard.
	inTable bool
	// nest is the \itap table nesting level.
	nest int

	// owner marks the group that switched the destination.
	owner bool
	// starred is set by \* until the next control word.
	starred bool
}

// active reports whether text in this scope goes to the document.
func (s *scope) active() bool {
	return s.dest == destBody
}

// Control words that start a destination from the document body.
var bodyDestinations = map[string]destination{
	"fonttbl":    destFontTable,
	"colortbl":   destColorTable,
	"stylesheet": destStyleSheet,
	"info":       destInfo,
	"pict":       destPict,
	"object":     destObject,
	"generator":  destGenerator,
	"upr":        destUpr,
	"userprops":  destUserProps,
}

// Control words whose groups are dropped.
var skippedDestinations = map[string]bool{
	"aftncn":               true,
	"aftnsep":              true,
	"aftnsepc":             true,
	"annotation":           true,
	"atnauthor":            true,
	"atndate":              true,
	"atnicn":               true,
	"atnid":                true,
	"atnparent":            true,
	"atnref":               true,
	"atntime":              true,
	"atrfend":              true,
	"atrfstart":            true,
	"background":           true,
	"bkmkend":              true,
	"bkmkstart":            true,
	"blipuid":              true,
	"bookmark":             true,
	"colorschememapping":   true,
	"colorschememappingex": true,
	"comment":              true,
	"datastore":            true,
	"defchp":               true,
	"defpap":               true,
	"do":                   true,
	"docvar":               true,
	"dptxbxtext":           true,
	"ebcend":               true,
	"ebcstart":             true,
	"fchars":               true,
	"ffdeftext":            true,
	"ffentrymcr":           true,
	"ffexitmcr":            true,
	"ffformat":             true,
	"ffhelptext":           true,
	"ffl":                  true,
	"ffname":               true,
	"ffstattext":           true,
	"filetbl":              true,
	"fldinst":              true,
	"fontemb":              true,
	"fontfile":             true,
	"footer":               true,
	"footerf":              true,
	"footerl":              true,
	"footerr":              true,
	"footnote":             true,
	"formfield":            true,
	"ftncn":                true,
	"ftnsep":               true,
	"ftnsepc":              true,
	"gridtbl":              true,
	"header":               true,
	"headerf":              true,
	"headerl":              true,
	"headerr":              true,
	"hlinkbase":            true,
	"htmltag":              true,
	"keycode":              true,
	"latentstyles":         true,
	"lchars":               true,
	"listoverridetable":    true,
	"listpicture":          true,
	"listtable":            true,
	"mhtmltag":             true,
	"mmath":                true,
	"mmathPr":              true,
	"mvfmf":                true,
	"mvfml":                true,
	"mvtof":                true,
	"mvtol":                true,
	"nesttableprops":       true,
	"nonesttables":         true,
	"nonshppict":           true,
	"objalias":             true,
	"objitem":              true,
	"objsect":              true,
	"objtopic":             true,
	"oldcprops":            true,
	"oldpprops":            true,
	"oldsprops":            true,
	"oldtprops":            true,
	"panose":               true,
	"password":             true,
	"passwordhash":         true,
	"pgdsctbl":             true,
	"pgptbl":               true,
	"picprop":              true,
	"pnseclvl":             true,
	"private":              true,
	"protusertbl":          true,
	"revtbl":               true,
	"rsidtbl":              true,
	"rxe":                  true,
	"shpinst":              true,
	"sn":                   true,
	"sp":                   true,
	"sv":                   true,
	"tc":                   true,
	"template":             true,
	"themedata":            true,
	"themedatadoc":         true,
	"topicline":            true,
	"txe":                  true,
	"wgrffmtfilter":        true,
	"xe":                   true,
	"xmlattrname":          true,
	"xmlattrvalue":         true,
	"xmlclose":             true,
	"xmlname":              true,
	"xmlnstbl":             true,
	"xmlopen":              true,
}

// Info group fields holding text, by control word.
var infoTextFields = map[string]bool{
	"title":    true,
	"subject":  true,
	"author":   true,
	"manager":  true,
	"company":  true,
	"operator": true,
	"category": true,
	"keywords": true,
	"comment":  true,
	"doccomm":  true,
}

// Info group fields holding a timestamp.
var infoTimeFields = map[string]bool{
	"creatim": true,
	"revtim":  true,
	"printim": true,
	"buptim":  true,
}

// Control words that are understood after \* in some context.
var starredKnown = map[string]bool{
	"generator": true,
	"objclass":  true,
	"objname":   true,
	"objdata":   true,
	"ud":        true,
	"falt":      true,
	"userprops": true,
	"shppict":   true,
	"cs":        true,
	"ds":        true,
	"ts":        true,
}

// Single characters produced by control words.
var specialChars = map[string]string{
	"par":       "\n",
	"line":      "\n",
	"sect":      "\n",
	"page":      "\n",
	"tab":       "\t",
	"emdash":    "—",
	"endash":    "–",
	"bullet":    "•",
	"lquote":    "‘",
	"rquote":    "’",
	"ldblquote": "“",
	"rdblquote": "”",
	"emspace":   "\u2003",
	"enspace":   "\u2002",
	"qmspace":   "\u2005",
	"zwj":       "\u200d",
	"zwnj":      "\u200c",
	"ltrmark":   "\u200e",
	"rtlmark":   "\u200f",
}

// Control symbols that produce text.
var specialSymbols = map[byte]string{
	'~': "\u00a0",
	'_': "\u2011",
	'-': "\u00ad",
}

// on reports whether a toggle control word turns its property on: a bare
// word or any non-zero parameter.
func on(hasParam bool, param int) bool {
	return !hasParam || param != 0
}

// applyFormatting updates the style for a character formatting control
// word. It reports false for words it does not know.
func applyFormatting(st *model.Style, name string, hasParam bool, param int) bool {
	switch name {
	case "b":
		st.Bold = on(hasParam, param)
	case "i":
		st.Italic = on(hasParam, param)
	case "strike":
		st.Strike = on(hasParam, param)
	case "striked":
		st.DoubleStrike = on(hasParam, param)
	case "v":
		st.Hidden = on(hasParam, param)
	case "caps":
		st.Caps = on(hasParam, param)
	case "scaps":
		st.SmallCaps = on(hasParam, param)
	case "ul":
		st.Underline = underline(hasParam, param, model.UnderlineSingle)
	case "ulnone":
		st.Underline = model.UnderlineNone
	case "uld", "uldashd":
		st.Underline = underline(hasParam, param, model.UnderlineDotted)
	case "uldb":
		st.Underline = underline(hasParam, param, model.UnderlineDouble)
	case "ulw":
		st.Underline = underline(hasParam, param, model.UnderlineWord)
	case "ulwave", "ululdbwave", "ulhwave":
		st.Underline = underline(hasParam, param, model.UnderlineWave)
	case "uldash", "uldashdd", "ulldash":
		st.Underline = underline(hasParam, param, model.UnderlineDash)
	case "ulth", "ulthd", "ulthdash", "ulthdashd", "ulthdashdd", "ulthldash":
		st.Underline = underline(hasParam, param, model.UnderlineThick)
	case "super":
		st.VertAlign = model.VertAlignSuper
	case "sub":
		st.VertAlign = model.VertAlignSub
	case "nosupersub":
		st.VertAlign = model.VertAlignBaseline
	case "f":
		st.FontIndex = param
	case "fs":
		if !hasParam {
			param = 24
		}
		st.FontSize = param
	case "cf":
		st.ForeColor = param
	case "cb", "chcbpat":
		st.BackColor = param
	case "highlight":
		st.Highlight = param
	case "plain":
		*st = model.DefaultStyle()
	default:
		return false
	}
	return true
}

func underline(hasParam bool, param int, kind model.UnderlineKind) model.UnderlineKind {
	if on(hasParam, param) {
		return kind
	}
	return model.UnderlineNone
}

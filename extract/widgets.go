package extract

// Kind describes what sort of content a settings value holds.
type Kind string

const (
	KindText       Kind = "text"
	KindHTML       Kind = "html"
	KindMedia      Kind = "media"
	KindIcon       Kind = "icon"
	KindRepeater   Kind = "repeater"
	KindSelect     Kind = "select"
	KindStructural Kind = "structural"
)

type widgetInfo struct {
	contentKey string // canonical content-bearing settings key, "" if none
	kind       Kind
}

// widgetTable maps widget tags to their canonical content key and kind.
// Keys other than the canonical one always report KindText.
var widgetTable = map[string]widgetInfo{
	"heading":      {"title", KindText},
	"text-editor":  {"editor", KindHTML},
	"image":        {"image", KindMedia},
	"video":        {"video", KindMedia},
	"button":       {"text", KindText},
	"icon":         {"icon", KindIcon},
	"icon-box":     {"title_text", KindText},
	"image-box":    {"title_text", KindText},
	"counter":      {"title", KindText},
	"progress":     {"title", KindText},
	"testimonial":  {"testimonial_content", KindHTML},
	"tabs":         {"tabs", KindRepeater},
	"accordion":    {"tabs", KindRepeater},
	"toggle":       {"tabs", KindRepeater},
	"social-icons": {"social_icon_list", KindRepeater},
	"alert":        {"alert_description", KindHTML},
	"html":         {"html", KindHTML},
	"shortcode":    {"shortcode", KindText},
	"divider":      {"", KindStructural},
	"spacer":       {"", KindStructural},
	"google_maps":  {"address", KindText},
	"form":         {"form_fields", KindRepeater},
	"nav-menu":     {"menu", KindSelect},
	"sidebar":      {"sidebar", KindSelect},
}

// KindOf returns the content kind for a settings key of the given widget
// tag. Only the widget's canonical content key carries the table kind;
// every other content-bearing key is plain text.
func KindOf(widgetTag, key string) Kind {
	if info, ok := widgetTable[widgetTag]; ok && info.contentKey == key {
		return info.kind
	}
	return KindText
}

// ContentKey returns the canonical content-bearing settings key for a
// widget tag, or "" when the widget has none (or is unknown).
func ContentKey(widgetTag string) string {
	return widgetTable[widgetTag].contentKey
}

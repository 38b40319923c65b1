package parsing

import "strings"

// markdownReplacer drops the emphasis characters the model tends to sprinkle
// into prose. Full markdown rendering is the client's business; deltas are
// fragments, not documents, so a character strip is all that is safe here.
var markdownReplacer = strings.NewReplacer("*", "", "_", "", "`", "")

// StripMarkdown removes markdown emphasis characters from text.
func StripMarkdown(text string) string {
	if text == "" {
		return ""
	}
	return markdownReplacer.Replace(text)
}

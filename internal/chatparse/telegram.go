package chatparse

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// DefaultChatName labels markup exports whose page header carries no title.
const DefaultChatName = "Telegram Chat"

// textExtractor pulls the message body out of a rendered message block.
// hasSender reports whether the block carried its own sender node, in which
// case the rendering leads with the sender's display name.
type textExtractor func(block *html.Node, sender string, hasSender bool) string

// stripSenderPrefix is the default extraction strategy. The export
// serializes the sender display name into the block's rendered text, so the
// body is recovered by dropping that many leading runes. This is fragile
// when the rendered text does not literally begin with the display name;
// the extractor is pluggable so a node-boundary strategy can replace it.
func stripSenderPrefix(block *html.Node, sender string, hasSender bool) string {
	text := collapseSpace(renderedText(block))
	if hasSender {
		r := []rune(text)
		n := len([]rune(sender))
		if len(r) >= n {
			text = string(r[n:])
		}
	}
	return strings.TrimSpace(text)
}

// ParseTelegram reads a Telegram HTML export. Message blocks carry an
// optional sender node (absent on joined follow-up messages, which inherit
// the current sender), a timestamp in the date node's title attribute, and
// the body text. Blocks without extractable text or with an unparseable
// timestamp are skipped and counted in Dropped.
func ParseTelegram(r io.Reader) (*Export, error) {
	return parseTelegram(r, stripSenderPrefix)
}

func parseTelegram(r io.Reader, extract textExtractor) (*Export, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	export := &Export{Name: pageTitle(doc)}

	currentSender := ""
	for _, block := range messageBlocks(doc) {
		hasSender := false
		if from := findByClass(block, "from_name"); from != nil {
			if name := collapseSpace(renderedText(from)); name != "" {
				currentSender = name
				hasSender = true
			}
		}
		if currentSender == "" {
			// no sender seen yet, nothing to carry forward
			export.Dropped++
			continue
		}

		date := findByClass(block, "date")
		if date == nil {
			export.Dropped++
			continue
		}
		ts, ok := parseTelegramTimestamp(attrVal(date, "title"))
		if !ok {
			export.Dropped++
			continue
		}

		body := extract(block, currentSender, hasSender)
		if body == "" {
			export.Dropped++
			continue
		}

		export.Messages = append(export.Messages, Message{
			Timestamp: ts,
			Sender:    currentSender,
			Body:      body,
		})
	}
	return export, nil
}

// pageTitle extracts the chat display name from the page header, falling
// back to DefaultChatName.
func pageTitle(doc *html.Node) string {
	header := findByClass(doc, "page_header")
	if header == nil {
		return DefaultChatName
	}
	title := findByClass(header, "text")
	if title == nil {
		return DefaultChatName
	}
	if name := collapseSpace(renderedText(title)); name != "" {
		return name
	}
	return DefaultChatName
}

// messageBlocks collects message blocks in document order, excluding
// service blocks (date separators, join notices) which carry no sender.
func messageBlocks(doc *html.Node) []*html.Node {
	var blocks []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "message") {
			if hasClass(n, "default") {
				blocks = append(blocks, n)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}

// renderedText concatenates the text nodes of a block the way a naive
// markup-to-text pass would, skipping the date widget.
func renderedText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "date") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func classList(n *html.Node) []string {
	return strings.Fields(attrVal(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classList(n) {
		if c == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findByClass returns the first element in DFS order carrying the class.
func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

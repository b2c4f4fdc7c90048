package addresser

import (
	"strconv"
	"strings"

	"github.com/chipforge/ecfasm/diag"
)

// Image is the dense address-indexed cell sequence produced by Pass B and
// mutated in place by Pass C.
type Image []string

func extendTo(img *Image, addr int) {
	for len(*img) <= addr {
		*img = append(*img, "0")
	}
}

func isDataByteLine(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && strings.ToUpper(fields[0]) == "DB"
}

// place runs Pass B: it walks the spaced line list placing each line's
// content at the cursor address, honoring ORG jumps and expanding DB lines
// into individual bytes.
func place(lines []string) (Image, []*diag.Diagnostic) {
	list := &diag.List{}
	var img Image
	cursor := 0

	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimSpace(raw)

		if isOriginLine(line) {
			addr, _ := originAddress(line)
			cursor = addr
			continue
		}

		if line == "" {
			extendTo(&img, cursor)
			img[cursor] = "0"
			cursor++
			continue
		}

		if isDataByteLine(line) {
			fields := strings.Fields(line)
			for _, tok := range fields[1:] {
				v, err := strconv.Atoi(tok)
				if err != nil || v < 0 || v > 255 {
					list.Addf(diag.DataByteOutOfRange, diag.Line(lineNum), "byte value %q out of range [0,255]", tok)
					return img, list.Errors()
				}
				extendTo(&img, cursor)
				img[cursor] = strconv.Itoa(v)
				cursor++
			}
			continue
		}

		extendTo(&img, cursor)
		img[cursor] = line
		cursor++
	}

	return img, list.Errors()
}

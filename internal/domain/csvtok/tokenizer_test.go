package csvtok_test

import (
	"strings"
	"testing"

	"github.com/okian/roster/internal/domain/csvtok"
	. "github.com/smartystreets/goconvey/convey"
)

// encode writes rows the way a spreadsheet export does: every field quoted,
// embedded quotes doubled.
func encode(rows [][]string, eol string) string {
	var b strings.Builder
	for _, r := range rows {
		for i, f := range r {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`)
		}
		b.WriteString(eol)
	}
	return b.String()
}

func TestTokenize(t *testing.T) {
	Convey("Given the CSV tokenizer", t, func() {
		Convey("When the input is empty", func() {
			So(csvtok.Tokenize(""), ShouldBeEmpty)
		})

		Convey("When the input has plain fields", func() {
			rows := csvtok.Tokenize("name,weight\nJane,Featherweight")

			Convey("Then rows and fields are split on commas and newlines", func() {
				So(rows, ShouldResemble, [][]string{
					{"name", "weight"},
					{"Jane", "Featherweight"},
				})
			})
		})

		Convey("When rows end with CR, LF or CRLF", func() {
			rows := csvtok.Tokenize("a,b\r\nc,d\re,f\n")

			Convey("Then each terminator ends exactly one row", func() {
				So(rows, ShouldResemble, [][]string{{"a", "b"}, {"c", "d"}, {"e", "f"}})
			})
		})

		Convey("When a trailing terminator is present", func() {
			rows := csvtok.Tokenize("a,b\n")

			Convey("Then no phantom row is produced", func() {
				So(len(rows), ShouldEqual, 1)
			})
		})

		Convey("When quoted fields hold commas, quotes and newlines", func() {
			rows := csvtok.Tokenize("name,bio\n\"Doe, Jane\",\"Says \"\"hi\"\"\nthen leaves\"\n")

			Convey("Then quoting is undone and the cell spans lines", func() {
				So(rows, ShouldResemble, [][]string{
					{"name", "bio"},
					{"Doe, Jane", "Says \"hi\"\nthen leaves"},
				})
			})
		})

		Convey("When spacer rows are present", func() {
			rows := csvtok.Tokenize("a,b\n,\n  ,\t\n\nc,d")

			Convey("Then blank rows are discarded", func() {
				So(rows, ShouldResemble, [][]string{{"a", "b"}, {"c", "d"}})
			})
		})

		Convey("When a row has a blank field beside a value", func() {
			rows := csvtok.Tokenize("a,,c")

			Convey("Then the empty field is kept", func() {
				So(rows, ShouldResemble, [][]string{{"a", "", "c"}})
			})
		})

		Convey("When a quote is never closed", func() {
			rows := csvtok.Tokenize("a,\"open\nb,c\nd")

			Convey("Then the rest of the input is one quoted field", func() {
				So(rows, ShouldResemble, [][]string{{"a", "open\nb,c\nd"}})
			})
		})

		Convey("When quotes appear mid-field", func() {
			rows := csvtok.Tokenize(`ab"c,d"e,f`)

			Convey("Then they toggle quoting like anywhere else", func() {
				So(rows, ShouldResemble, [][]string{{"abc,de", "f"}})
			})
		})

		Convey("When non-ASCII text is present", func() {
			rows := csvtok.Tokenize("name\nJosé Ñúñez")

			Convey("Then it passes through untouched", func() {
				So(rows[1][0], ShouldEqual, "José Ñúñez")
			})
		})

		Convey("When well-formed quoted CSV is round-tripped", func() {
			original := [][]string{
				{"name", "bio", "replays"},
				{"O'Neil, Pat", "Line one\nLine two", "https://youtu.be/abc123XYZ,\nhttps://vimeo.com/1234"},
				{`The "Hammer"`, "", "x"},
				{"Crlf", "a\r\nb", ","},
			}

			for _, eol := range []string{"\n", "\r\n"} {
				So(csvtok.Tokenize(encode(original, eol)), ShouldResemble, original)
			}
		})
	})
}

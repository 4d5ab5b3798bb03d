package search

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {
	Context("Valid queries", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			{input: "evidence", output: "(evidence)"},
			{input: "+evidence -retracted", output: "(+evidence) (-retracted)"},
			{input: `"peer   review"`, output: `("peer review")`},
			{input: `-"peer review" clin*`, output: `(-"peer review") (clin*)`},
			{input: "  +a  b  ", output: "(+a) (b)"},
		}

		for _, test := range tests {
			test := test
			It("should parse: "+test.input, func() {
				q, err := Parse(test.input)
				Expect(err).ToNot(HaveOccurred())
				Expect(q.String()).To(Equal(test.output))
			})
		}
	})

	Context("Invalid queries", func() {
		inputs := []string{
			"",
			"   ",
			"+",
			"+ evidence",
			"evidence -",
			`"unterminated`,
			`""`,
			`"   "`,
			"+-evidence",
			"*",
			"(evidence)",
		}

		for _, input := range inputs {
			input := input
			It("should return ParseError for: "+input, func() {
				_, err := Parse(input)
				Expect(err).To(HaveOccurred())
				var pe ParseError
				Expect(errors.As(err, &pe)).To(BeTrue())
			})
		}
	})

	Context("Rendering", func() {
		It("should render MySQL boolean mode syntax", func() {
			// Arrange
			q, err := Parse(`+Evidence -retracted "peer review" clin* covid-19`)
			Expect(err).ToNot(HaveOccurred())

			// Act & Assert
			Expect(q.Boolean()).To(Equal(`+Evidence -retracted "peer review" clin* "covid-19"`))
		})

		It("should render a normalized term list", func() {
			q, err := Parse(`+Evidence -retracted "Peer Review" clin*`)
			Expect(err).ToNot(HaveOccurred())

			Expect(q.Normalized()).To(Equal("+evidence\t-retracted\t~peer review\t~clin"))
		})

		It("should render plain text without operators", func() {
			q, err := Parse(`+a -b "c d"`)
			Expect(err).ToNot(HaveOccurred())

			Expect(q.Plain()).To(Equal("a b c d"))
		})
	})
})

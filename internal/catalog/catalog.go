package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// Catalog is the immutable question-and-product set the pipeline reads from.
// Construct it with Load or New; never mutate the slices it hands out.
type Catalog struct {
	questions   []SurveyQuestion
	products    []FinancialProduct
	questionIdx map[string]int
	productIdx  map[string]int
}

// New builds a Catalog from already-parsed questions and products, validating
// id uniqueness.  Load is the usual entry point; New exists for tests and for
// callers that source catalog data elsewhere.
func New(questions []SurveyQuestion, products []FinancialProduct) (*Catalog, error) {
	c := &Catalog{
		questions:   append([]SurveyQuestion(nil), questions...),
		products:    append([]FinancialProduct(nil), products...),
		questionIdx: make(map[string]int, len(questions)),
		productIdx:  make(map[string]int, len(products)),
	}
	for i, q := range c.questions {
		if q.ID == "" {
			return nil, fmt.Errorf("catalog: question %d has an empty id", i)
		}
		if _, dup := c.questionIdx[q.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate question id %q", q.ID)
		}
		c.questionIdx[q.ID] = i
	}
	for i, p := range c.products {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: product %d has an empty id", i)
		}
		if _, dup := c.productIdx[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %q", p.ID)
		}
		if _, ok := ParseProductType(string(p.Type)); !ok {
			return nil, fmt.Errorf("catalog: product %q has unknown type %q", p.ID, p.Type)
		}
		c.productIdx[p.ID] = i
	}
	return c, nil
}

// surveyData mirrors the on-disk JSON document shape.
type surveyData struct {
	Questions []SurveyQuestion   `json:"questions"`
	Products  []FinancialProduct `json:"products"`
}

// Load reads and validates the catalog file at path.  Callers treat any
// error as fatal to process start; there is no per-request reload.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes catalog JSON from r.  Split out from Load so tests can feed
// in-memory documents.
func Parse(r io.Reader) (*Catalog, error) {
	var data surveyData
	dec := json.NewDecoder(r)
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("catalog: decode survey data: %w", err)
	}
	if len(data.Questions) == 0 {
		return nil, fmt.Errorf("catalog: survey data contains no questions")
	}
	if len(data.Products) == 0 {
		return nil, fmt.Errorf("catalog: survey data contains no products")
	}
	return New(data.Questions, data.Products)
}

// Questions returns the ordered question list.  The returned slice is shared;
// callers must not modify it.
func (c *Catalog) Questions() []SurveyQuestion { return c.questions }

// Products returns the ordered product list.  The returned slice is shared;
// callers must not modify it.
func (c *Catalog) Products() []FinancialProduct { return c.products }

// Question looks up a question by id.
func (c *Catalog) Question(id string) (SurveyQuestion, bool) {
	i, ok := c.questionIdx[id]
	if !ok {
		return SurveyQuestion{}, false
	}
	return c.questions[i], true
}

// Product looks up a product by id.
func (c *Catalog) Product(id string) (FinancialProduct, bool) {
	i, ok := c.productIdx[id]
	if !ok {
		return FinancialProduct{}, false
	}
	return c.products[i], true
}

// HasQuestion reports whether id refers to a loaded question.
func (c *Catalog) HasQuestion(id string) bool {
	_, ok := c.questionIdx[id]
	return ok
}

// ValidateAnswerQuestion returns a bad-request error when id does not refer
// to a loaded question.  The orchestrator calls this before any scoring work.
func (c *Catalog) ValidateAnswerQuestion(id string) error {
	if c.HasQuestion(id) {
		return nil
	}
	return apperrors.New(apperrors.ErrCodeSurveyUnknownQuestion,
		"answer references an unknown survey question").
		WithDetail(fmt.Sprintf("questionId=%q", id))
}

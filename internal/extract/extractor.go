package extract

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/claimsight/claim-analyzer/internal/ner"
)

// Regex fallbacks for fields the recognizer cannot find. The policy pattern
// requires the literal "Policy Number" token followed by a WORD-WORD value;
// the age pattern requires "Age" and a 1-2 digit number ending a line.
var (
	policyPattern = regexp.MustCompile(`(?i)Policy\s?Number[:\s]+(\w+-\w+)`)
	agePattern    = regexp.MustCompile(`(?i)Age[:\s]+(\d{1,2})\n`)
)

// Extractor turns raw recognized text plus typed spans into a FieldRecord.
type Extractor struct {
	recognizer ner.Recognizer
	log        *slog.Logger
}

func NewExtractor(recognizer ner.Recognizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{recognizer: recognizer, log: logger}
}

// Extract runs recognition and field selection for one document. When the
// recognition model is unavailable it returns the Err sentinel record and no
// error; callers check rec.Err before proceeding.
func (e *Extractor) Extract(ctx context.Context, rawText string) (FieldRecord, error) {
	entities, err := e.recognizer.Recognize(ctx, rawText)
	if err != nil {
		if errors.Is(err, ner.ErrModelUnavailable) {
			e.log.Error("extract.model_unavailable", "error", err)
			return ErrorRecord("NLP model not loaded."), nil
		}
		return FieldRecord{}, err
	}
	rec := SelectFields(rawText, entities)
	e.log.Info("extract.ok",
		"entities", len(entities),
		"complete", rec.Complete(),
		"provider", rec.InsuranceProvider,
	)
	return rec, nil
}

// SelectFields applies the disambiguation rules to a fixed entity set. Pure;
// usable directly in tests and by callers that already hold spans.
//
// The selection rules are heuristics, not guarantees: "first span wins" for
// name/date favors the earliest mention (typically the form header), and
// "largest value wins" for money assumes the claimed total exceeds any
// subtotal or co-pay on the form. A line item larger than the true total
// would win incorrectly; the tie-breaks are kept for compatibility.
func SelectFields(rawText string, entities []ner.Entity) FieldRecord {
	rec := NewFieldRecord()

	var persons, dates, money []string
	for _, ent := range entities {
		text := strings.TrimSpace(ent.Text)
		if text == "" {
			continue
		}
		switch ent.Kind {
		case ner.KindPerson:
			persons = append(persons, text)
		case ner.KindDate:
			dates = append(dates, text)
		case ner.KindMoney:
			money = append(money, text)
		case ner.KindProvider:
			// Custom gazetteer matches are used verbatim and always win
			// over generic recognizer output for this field.
			rec.InsuranceProvider = text
		}
	}

	if len(persons) > 0 {
		rec.PatientName = persons[0]
	}
	if len(dates) > 0 {
		rec.DateOfService = dates[0]
	}

	// Largest parseable amount wins; unparsable spans are skipped, not errors.
	maxAmount := 0.0
	for _, m := range money {
		amount, ok := ParseMoney(m)
		if !ok {
			continue
		}
		if amount > maxAmount {
			maxAmount = amount
			rec.ClaimAmount = m
		}
	}

	// Regex paths run over the raw text, independent of the entity spans.
	if m := policyPattern.FindStringSubmatch(rawText); m != nil {
		rec.PolicyNumber = strings.TrimSpace(m[1])
	}
	if m := agePattern.FindStringSubmatch(rawText); m != nil {
		rec.PatientAge = strings.TrimSpace(m[1])
	}

	return rec
}

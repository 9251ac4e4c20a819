package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// MinPeriod and MaxPeriod bound Subject.period.
const (
	MinPeriod = 1
	MaxPeriod = 9
)

// Choice is a closed enum value with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AcademicLevel is the level a Career (and a pay rate) belongs to.
type AcademicLevel string

const (
	LevelPrimaria     AcademicLevel = "primaria"
	LevelSecundaria   AcademicLevel = "secundaria"
	LevelBachillerato AcademicLevel = "bachillerato"
	LevelUniversidad  AcademicLevel = "universidad"
	LevelPosgrado     AcademicLevel = "posgrado"
	LevelNocturna     AcademicLevel = "nocturna"
	LevelVirtual      AcademicLevel = "virtual"
	LevelTaller       AcademicLevel = "taller"
)

var (
	AcademicLevels = []AcademicLevel{
		LevelPrimaria, LevelSecundaria, LevelBachillerato, LevelUniversidad,
		LevelPosgrado, LevelNocturna, LevelVirtual, LevelTaller,
	}

	academicLevelLabels = map[AcademicLevel]string{
		LevelPrimaria:     "Primaria",
		LevelSecundaria:   "Secundaria",
		LevelBachillerato: "Bachillerato",
		LevelUniversidad:  "Universidad Matutina/Vespertina",
		LevelPosgrado:     "Posgrado",
		LevelNocturna:     "Universidad Nocturna",
		LevelVirtual:      "Universidad Virtual",
		LevelTaller:       "Taller",
	}
)

// ParseAcademicLevel leniently parses `s`; ok is false for unknown values.
func ParseAcademicLevel(s string) (AcademicLevel, bool) {
	lvl := AcademicLevel(CleanString(s, true /* lower */))
	return lvl, lvl.Valid()
}

func (lvl AcademicLevel) Valid() bool {
	_, ok := academicLevelLabels[lvl]
	return ok
}

func (lvl AcademicLevel) Label() string {
	if label, ok := academicLevelLabels[lvl]; ok {
		return label
	}
	return undefinedLabel
}

func (lvl *AcademicLevel) UnmarshalJSON(data []byte) error {
	return unmarshalChoice(data, "academicLevel", func(s string) bool {
		parsed, ok := ParseAcademicLevel(s)
		*lvl = parsed
		return ok || s == ""
	})
}

func AcademicLevelChoices() []Choice {
	choices := make([]Choice, 0, len(AcademicLevels))
	for _, lvl := range AcademicLevels {
		choices = append(choices, Choice{Value: string(lvl), Label: lvl.Label()})
	}
	return choices
}

// Classification is a professor's (and a pay rate's) category.
type Classification string

const (
	ClassificationA Classification = "a"
	ClassificationB Classification = "b"
	ClassificationC Classification = "c"
	ClassificationD Classification = "d"
	ClassificationI Classification = "i"
)

var Classifications = []Classification{
	ClassificationA, ClassificationB, ClassificationC, ClassificationD, ClassificationI,
}

func ParseClassification(s string) (Classification, bool) {
	cls := Classification(CleanString(s, true /* lower */))
	return cls, cls.Valid()
}

func (cls Classification) Valid() bool {
	for _, c := range Classifications {
		if c == cls {
			return true
		}
	}
	return false
}

func (cls Classification) Label() string {
	if !cls.Valid() {
		return undefinedLabel
	}
	return "Clasificación " + strings.ToUpper(string(cls))
}

func (cls *Classification) UnmarshalJSON(data []byte) error {
	return unmarshalChoice(data, "classification", func(s string) bool {
		parsed, ok := ParseClassification(s)
		*cls = parsed
		return ok || s == ""
	})
}

func ClassificationChoices() []Choice {
	choices := make([]Choice, 0, len(Classifications))
	for _, cls := range Classifications {
		choices = append(choices, Choice{Value: string(cls), Label: cls.Label()})
	}
	return choices
}

// PeriodDenomination names the periods of a StudyPlan.
type PeriodDenomination string

const (
	PeriodSemester PeriodDenomination = "semester"
	PeriodQuarter  PeriodDenomination = "quarter"
	PeriodAnual    PeriodDenomination = "anual"
)

var (
	PeriodDenominations = []PeriodDenomination{PeriodSemester, PeriodQuarter, PeriodAnual}

	periodDenominationLabels = map[PeriodDenomination]string{
		PeriodSemester: "Semestre",
		PeriodQuarter:  "Cuatrimestre",
		PeriodAnual:    "Año",
	}

	ordinals = []string{"Primer", "Segundo", "Tercer", "Cuarto", "Quinto", "Sexto", "Séptimo", "Octavo", "Noveno"}
)

func ParsePeriodDenomination(s string) (PeriodDenomination, bool) {
	pd := PeriodDenomination(CleanString(s, true /* lower */))
	return pd, pd.Valid()
}

func (pd PeriodDenomination) Valid() bool {
	_, ok := periodDenominationLabels[pd]
	return ok
}

func (pd PeriodDenomination) Label() string {
	if label, ok := periodDenominationLabels[pd]; ok {
		return label
	}
	return undefinedLabel
}

// PeriodLabel names the n-th period, e.g. "Segundo Semestre".
func (pd PeriodDenomination) PeriodLabel(n int) string {
	return OrdinalLabel(n) + " " + pd.Label()
}

func (pd *PeriodDenomination) UnmarshalJSON(data []byte) error {
	return unmarshalChoice(data, "periodDenomination", func(s string) bool {
		parsed, ok := ParsePeriodDenomination(s)
		*pd = parsed
		return ok || s == ""
	})
}

func PeriodDenominationChoices() []Choice {
	choices := make([]Choice, 0, len(PeriodDenominations))
	for _, pd := range PeriodDenominations {
		choices = append(choices, Choice{Value: string(pd), Label: pd.Label()})
	}
	return choices
}

// OrdinalLabel returns the Spanish ordinal of a period in [MinPeriod, MaxPeriod].
func OrdinalLabel(n int) string {
	if n < MinPeriod || n > MaxPeriod {
		return undefinedLabel
	}
	return ordinals[n-1]
}

const undefinedLabel = "No definido"

// unmarshalChoice decodes a JSON string and hands it to `accept`.
// Empty strings are accepted so that `required` validation reports them; unknown values are rejected here.
func unmarshalChoice(data []byte, field string, accept func(string) bool) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return NewFieldValidationError(field, errors.Errorf("%s must be a string", field))
	}
	if !accept(s) {
		return NewFieldValidationError(field, fmt.Errorf("invalid %s %q", field, s))
	}
	return nil
}

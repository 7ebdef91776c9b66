package habit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewHabit is the input to Repository.Add.
type NewHabit struct {
	Name      string `validate:"required,max=64"`
	Frequency int    `validate:"gte=1"`
	Goal      int    `validate:"gte=1"`
}

// Edit carries optional field changes; nil fields are left alone.
// Progress, when set, replaces the progress the other changes would leave.
type Edit struct {
	Name      *string `validate:"omitnil,min=1,max=64"`
	Frequency *int    `validate:"omitnil,gte=1"`
	Goal      *int    `validate:"omitnil,gte=1"`
	Progress  *int    `validate:"omitnil,gte=0"`
}

func (e Edit) Empty() bool {
	return e.Name == nil && e.Frequency == nil && e.Goal == nil && e.Progress == nil
}

// checkStruct runs validator tags and maps failures to ErrInvalidInput.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required", "min":
		return field + " cannot be empty"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

// Validate normalizes the name and checks field constraints.
func (n NewHabit) Validate() (NewHabit, error) {
	n.Name = NormalizeName(n.Name)
	if err := checkStruct(n); err != nil {
		return n, err
	}
	return n, nil
}

// ApplyEdit returns h with e applied. A frequency change resets progress
// and a lower goal clamps progress; streak and last done are kept.
func ApplyEdit(h Habit, e Edit) (Habit, error) {
	if e.Name != nil {
		name := NormalizeName(*e.Name)
		e.Name = &name
	}
	if err := checkStruct(e); err != nil {
		return h, err
	}
	if e.Name != nil {
		h.Name = *e.Name
	}
	if e.Frequency != nil && *e.Frequency != h.Frequency {
		h.Frequency = *e.Frequency
		h.Progress = 0
	}
	if e.Goal != nil {
		h.Goal = *e.Goal
		if h.Progress > h.Goal {
			h.Progress = h.Goal
		}
	}
	if e.Progress != nil {
		h.Progress = min(*e.Progress, h.Goal)
	}
	return h, nil
}

// Merge layers o on top of e, later values winning.
func (e Edit) Merge(o Edit) Edit {
	if o.Name != nil {
		e.Name = o.Name
	}
	if o.Frequency != nil {
		e.Frequency = o.Frequency
	}
	if o.Goal != nil {
		e.Goal = o.Goal
	}
	if o.Progress != nil {
		e.Progress = o.Progress
	}
	return e
}

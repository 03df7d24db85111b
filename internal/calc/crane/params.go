package crane

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"Jibcrane/internal/calc/loads"
	"Jibcrane/internal/frame"

	"github.com/go-playground/validator/v10"
)

// Input is the request body. Omitted fields take the reference crane's
// values.
type Input struct {
	PipeOD             *float64 `json:"pipe_od,omitempty" validate:"omitempty,finite,gt=0"`
	TWall              *float64 `json:"t_wall,omitempty" validate:"omitempty,finite,gt=0"`
	BaseLen            *float64 `json:"base_len,omitempty" validate:"omitempty,finite,gt=0"`
	BaseWid            *float64 `json:"base_wid,omitempty" validate:"omitempty,finite,gt=0"`
	ArmPivotHeight     *float64 `json:"arm_pivot_height,omitempty" validate:"omitempty,finite,gt=0"`
	TripodAttachHeight *float64 `json:"tripod_attach_height,omitempty" validate:"omitempty,finite,gt=0"`
	BraceMastHeight    *float64 `json:"brace_mast_height,omitempty" validate:"omitempty,finite,gt=0"`
	ArmLen             *float64 `json:"arm_len,omitempty" validate:"omitempty,finite,gt=0"`
	ArmAngle           *float64 `json:"arm_angle,omitempty" validate:"omitempty,finite"`
	MassTip            *float64 `json:"mass_tip,omitempty" validate:"omitempty,finite,gte=0"`

	YieldStress *float64 `json:"yield_stress,omitempty" validate:"omitempty,finite,gt=0"`
	Grade       string   `json:"grade,omitempty"`
	Combination string   `json:"combination,omitempty" validate:"omitempty,oneof=service uls"`
}

// Params is Input with every default applied.
type Params struct {
	PipeOD             float64 `json:"pipe_od"`
	TWall              float64 `json:"t_wall"`
	BaseLen            float64 `json:"base_len"`
	BaseWid            float64 `json:"base_wid"`
	ArmPivotHeight     float64 `json:"arm_pivot_height"`
	TripodAttachHeight float64 `json:"tripod_attach_height"`
	BraceMastHeight    float64 `json:"brace_mast_height"`
	ArmLen             float64 `json:"arm_len"`
	ArmAngle           float64 `json:"arm_angle"`
	MassTip            float64 `json:"mass_tip"`

	// YieldStress overrides the grade's yield when > 0.
	YieldStress float64      `json:"yield_stress,omitempty"`
	Grade       string       `json:"grade,omitempty"`
	Combination loads.Method `json:"combination"`
}

func Defaults() Params {
	return Params{
		PipeOD:             48.6,
		TWall:              2.4,
		BaseLen:            900,
		BaseWid:            600,
		ArmPivotHeight:     1800,
		TripodAttachHeight: 1000,
		BraceMastHeight:    800,
		ArmLen:             1000,
		ArmAngle:           180,
		MassTip:            50,
		Combination:        loads.MethodService,
	}
}

// InputError lists every parameter that failed validation.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return "invalid parameters: " + strings.Join(e.Problems, "; ")
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	})
}

// Resolve validates in and fills the defaults. Mast heights must increase
// from the brace joint through the tripod attachment to the arm pivot.
func Resolve(in Input) (Params, error) {
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return Params{}, fmt.Errorf("validate input: %w", err)
		}
		ie := &InputError{}
		for _, fe := range ve {
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += " " + fe.Param()
			}
			ie.Problems = append(ie.Problems, fmt.Sprintf("%s=%v fails %s", fe.Field(), fe.Value(), rule))
		}
		return Params{}, ie
	}

	p := Defaults()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.PipeOD, in.PipeOD)
	set(&p.TWall, in.TWall)
	set(&p.BaseLen, in.BaseLen)
	set(&p.BaseWid, in.BaseWid)
	set(&p.ArmPivotHeight, in.ArmPivotHeight)
	set(&p.TripodAttachHeight, in.TripodAttachHeight)
	set(&p.BraceMastHeight, in.BraceMastHeight)
	set(&p.ArmLen, in.ArmLen)
	set(&p.ArmAngle, in.ArmAngle)
	set(&p.MassTip, in.MassTip)
	set(&p.YieldStress, in.YieldStress)
	p.Grade = in.Grade
	if in.Combination != "" {
		p.Combination = loads.Method(in.Combination)
	}

	if !(p.BraceMastHeight < p.TripodAttachHeight && p.TripodAttachHeight < p.ArmPivotHeight) {
		return Params{}, &frame.InvalidGeometryError{
			Subject: "mast heights",
			Reason: fmt.Sprintf("need brace_mast_height < tripod_attach_height < arm_pivot_height, got %g, %g, %g",
				p.BraceMastHeight, p.TripodAttachHeight, p.ArmPivotHeight),
		}
	}
	return p, nil
}

// Input converts p back to a fully specified request.
func (p Params) Input() Input {
	f := func(v float64) *float64 { return &v }
	in := Input{
		PipeOD:             f(p.PipeOD),
		TWall:              f(p.TWall),
		BaseLen:            f(p.BaseLen),
		BaseWid:            f(p.BaseWid),
		ArmPivotHeight:     f(p.ArmPivotHeight),
		TripodAttachHeight: f(p.TripodAttachHeight),
		BraceMastHeight:    f(p.BraceMastHeight),
		ArmLen:             f(p.ArmLen),
		ArmAngle:           f(p.ArmAngle),
		MassTip:            f(p.MassTip),
		Grade:              p.Grade,
		Combination:        string(p.Combination),
	}
	if p.YieldStress > 0 {
		in.YieldStress = f(p.YieldStress)
	}
	return in
}

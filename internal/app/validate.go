package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"gowakeonlan/internal/models"
	"gowakeonlan/internal/wol"
)

// ErrInvalidHost wraps every field validation failure.
var ErrInvalidHost = errors.New("invalid host")

type hostValidator struct {
	v *validator.Validate
}

func newHostValidator() *hostValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// RegisterValidation only fails on an empty tag or a reserved name.
	_ = v.RegisterValidation("wolmac", func(fl validator.FieldLevel) bool {
		_, err := wol.ParseMAC(fl.Field().String())
		return err == nil
	})
	return &hostValidator{v: v}
}

// host checks rec and returns it with a canonical MAC and trimmed strings.
func (hv *hostValidator) host(rec models.HostRecord) (models.HostRecord, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.MACAddress = strings.TrimSpace(rec.MACAddress)
	rec.Destination = strings.TrimSpace(rec.Destination)

	if err := hv.v.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return rec, fmt.Errorf("%w: %s", ErrInvalidHost, strings.Join(msgs, "; "))
		}
		return rec, err
	}

	mac, err := wol.NormalizeMAC(rec.MACAddress)
	if err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidHost, err)
	}
	rec.MACAddress = mac
	return rec, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() {
	case "MACAddress":
		return fmt.Sprintf("MAC address %q must be six hex octets", fe.Value())
	case "Port":
		return fmt.Sprintf("port %v must be between 1 and 65535", fe.Value())
	case "Destination":
		return fmt.Sprintf("destination %q must be an IPv4 address or host name", fe.Value())
	}
	return fe.Error()
}

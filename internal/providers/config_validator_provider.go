package providers

import (
	"adoptwatch/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Storage.Backend == "badger" && cv.conf.Storage.Path == "" {
		return validate.Errors{"storage.path": {"required": "storage.path is required for the badger backend"}}
	}
	return nil
}

package cli

import (
	"errors"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"github.com/dmitrijs2005/chaincode/internal/cryptox"
	"github.com/dmitrijs2005/chaincode/internal/wallet/bundle"
	"github.com/dmitrijs2005/chaincode/internal/wallet/models"
	"github.com/dmitrijs2005/chaincode/internal/wallet/services"
)

// describe turns an error into the short text shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, cryptox.ErrAuthentication):
		return "authentication failed"
	case errors.Is(err, cryptox.ErrEmptyPassword):
		return "a password is required"
	case errors.Is(err, bundle.ErrEmptyEntry):
		return "empty"
	case errors.Is(err, common.ErrFormat):
		return "malformed"
	case errors.Is(err, models.ErrValidation):
		return "invalid: " + err.Error()
	case errors.Is(err, common.ErrNothingSelected):
		return "nothing selected"
	case errors.Is(err, common.ErrIndexOutOfRange):
		return "no such card"
	case errors.Is(err, services.ErrKeyNotFound):
		return "no key for this card"
	default:
		return err.Error()
	}
}

package core

import (
	"fmt"

	apperrors "cinehub/pkg/errors"
)

func IsMissing(str string) bool {
	return len(str) == 0
}

func MissingParamErr(paramName string) error {
	return apperrors.InvalidInput(fmt.Sprintf("required param [%v] is missing", paramName))
}

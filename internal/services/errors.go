package services

import (
	"fmt"

	"lucidly/pkg/utils"
)

// storageErr tags a repository failure so the API maps it to a 500 while
// the cause stays visible in logs.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", utils.ErrDatabaseError, op, err)
}

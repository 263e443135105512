package util

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateSKU produces a catalog SKU of the form "SB-XXXXXXXX".
// The suffix is the first uuid segment, unique enough for catalog sizes here.
func GenerateSKU() string {
	id := uuid.New().String()
	return fmt.Sprintf("SB-%s", strings.ToUpper(strings.SplitN(id, "-", 2)[0]))
}

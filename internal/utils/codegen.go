package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// GenerateAllocationCode builds a unique allocation code in the form
// ALLOC-{fiscalYear}-{timestamp36}, where timestamp36 is the creation time in
// Unix milliseconds encoded in base 36 (upper case).
func GenerateAllocationCode(fiscalYear int, at time.Time) string {
	ts36 := strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
	return fmt.Sprintf("ALLOC-%d-%s", fiscalYear, ts36)
}

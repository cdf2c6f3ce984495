package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const billDateLayout = "2006-01-02"

// GenerateBillReference builds a unique bill reference of the form
// FAC-YYYYMMDD-HHMMSS-mmm-XXXXXXXX.
func GenerateBillReference(now time.Time) string {
	now = now.UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	return fmt.Sprintf("FAC-%s-%03d-%s", datePart, millis, suffix)
}

// BillDate is the date the backend stores on a bill.
func BillDate(now time.Time) string {
	return now.UTC().Format(billDateLayout)
}

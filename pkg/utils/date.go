package utils

import (
	"log"
	"time"
)

// Fund NAV feeds publish dates in China Standard Time.
func GetCSTTimeLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

func TimeNowCST() time.Time {
	return time.Now().In(GetCSTTimeLocation())
}

// ParseNavDate parses the YYYY-MM-DD date format used by the NAV feed.
func ParseNavDate(text string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", text, GetCSTTimeLocation())
}

func FormatNavDate(date time.Time) string {
	return date.Format("2006-01-02")
}

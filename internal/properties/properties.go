package properties

import (
	"os"
	"strconv"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

// GoodDataThreshold is the minimum fraction of quality-acceptable pixels an
// acquisition needs to be retained. Defaults to 0.2, the value used for the
// turbid-lake sites.
func GoodDataThreshold() float64 {
	raw := os.Getenv("GOOD_DATA_THRESHOLD")
	if raw == "" {
		return 0.2
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 || value > 1 {
		return 0.2
	}
	return value
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

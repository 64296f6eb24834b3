package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	if balance < 0 {
		return "-" + FormatBalance(-balance)
	}

	str := fmt.Sprintf("%d", balance)
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatCurrency formats an amount with the currency name, e.g. "**1,250** Cyan Dollars"
func FormatCurrency(amount int64) string {
	return fmt.Sprintf("**%s** %s", FormatBalance(amount), CurrencyName)
}

// FormatSignedChange formats a balance delta with an explicit sign
func FormatSignedChange(change int64) string {
	if change > 0 {
		return "+" + FormatBalance(change)
	}
	return FormatBalance(change)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// UserMention returns a Discord mention for a user id
func UserMention(userID string) string {
	return "<@" + userID + ">"
}

// RankBadge returns a medal for the podium and "#n" otherwise
func RankBadge(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", rank)
	}
}

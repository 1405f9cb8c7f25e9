package entities

import (
	"fmt"
	"strconv"
	"time"
)

type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeNumber  SettingType = "number"
)

// UserSetting is a typed key/value preference. The on-disk value is always
// text; SettingType declares how it decodes.
type UserSetting struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	SettingKey   string      `gorm:"uniqueIndex;size:100" json:"setting_key"`
	SettingValue string      `gorm:"type:text" json:"setting_value"`
	SettingType  SettingType `gorm:"size:20;default:'string'" json:"setting_type"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (UserSetting) TableName() string {
	return "user_settings"
}

// Known setting keys
const (
	SettingKeyTheme            = "theme"
	SettingKeyAutoPlayNext     = "auto_play_next"
	SettingKeyPlaybackSpeed    = "playback_speed"
	SettingKeyVolume           = "volume"
	SettingKeyAutoSaveProgress = "auto_save_progress"
	SettingKeyShowSubtitles    = "show_subtitles"
	SettingKeyLanguage         = "language"
)

// DefaultSettings is the fixed set seeded on first store initialization.
// Keys already present are never overwritten.
var DefaultSettings = []UserSetting{
	{SettingKey: SettingKeyTheme, SettingValue: "dark", SettingType: SettingTypeString},
	{SettingKey: SettingKeyAutoPlayNext, SettingValue: "true", SettingType: SettingTypeBoolean},
	{SettingKey: SettingKeyPlaybackSpeed, SettingValue: "1.0", SettingType: SettingTypeNumber},
	{SettingKey: SettingKeyVolume, SettingValue: "0.8", SettingType: SettingTypeNumber},
	{SettingKey: SettingKeyAutoSaveProgress, SettingValue: "true", SettingType: SettingTypeBoolean},
	{SettingKey: SettingKeyShowSubtitles, SettingValue: "false", SettingType: SettingTypeBoolean},
	{SettingKey: SettingKeyLanguage, SettingValue: "pt-BR", SettingType: SettingTypeString},
}

// SettingValue is the typed form of a setting at the repository boundary.
// Exactly one of Str, Bool or Num is meaningful, selected by Type; the
// string stored on disk is a serialization concern only.
type SettingValue struct {
	Type SettingType `json:"type"`
	Str  string      `json:"str,omitempty"`
	Bool bool        `json:"bool,omitempty"`
	Num  float64     `json:"num,omitempty"`
}

func StringValue(s string) SettingValue {
	return SettingValue{Type: SettingTypeString, Str: s}
}

func BoolValue(b bool) SettingValue {
	return SettingValue{Type: SettingTypeBoolean, Bool: b}
}

func NumberValue(n float64) SettingValue {
	return SettingValue{Type: SettingTypeNumber, Num: n}
}

// ParseSettingValue decodes a stored text value according to its declared
// type. It fails when the text does not parse as that type.
func ParseSettingValue(raw string, t SettingType) (SettingValue, error) {
	switch t {
	case SettingTypeString:
		return StringValue(raw), nil
	case SettingTypeBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return SettingValue{}, fmt.Errorf("value %q is not a boolean: %w", raw, err)
		}
		return BoolValue(b), nil
	case SettingTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return SettingValue{}, fmt.Errorf("value %q is not a number: %w", raw, err)
		}
		return NumberValue(n), nil
	}
	return SettingValue{}, fmt.Errorf("unknown setting type %q", t)
}

// Encode renders the value as its on-disk text representation.
func (v SettingValue) Encode() string {
	switch v.Type {
	case SettingTypeBoolean:
		return strconv.FormatBool(v.Bool)
	case SettingTypeNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.Str
	}
}

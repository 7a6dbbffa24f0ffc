package models

// IconKind identifies which celebration icon a badge renders with.
type IconKind string

const (
	IconFlame  IconKind = "flame"
	IconMedal  IconKind = "medal"
	IconTrophy IconKind = "trophy"
	IconStar   IconKind = "star"
	IconCrown  IconKind = "crown"
	IconGem    IconKind = "gem"
)

// Badge is a fixed streak-length milestone. The catalog is static and
// ordered ascending by threshold; it is not user-configurable.
type Badge struct {
	ThresholdDays int      `json:"threshold_days" yaml:"threshold_days"`
	Label         string   `json:"label" yaml:"label"`
	Icon          IconKind `json:"icon" yaml:"icon"`
}

// AchievementEvent is the ephemeral value emitted when a badge threshold
// is first crossed. It has no persisted lifecycle of its own; it exists
// only for the duration of one recompute-and-notify cycle.
type AchievementEvent struct {
	Badge Badge `json:"badge"`
}

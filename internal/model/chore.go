package model

// NullID mirrors the server's nullable owner column as it appears on the wire.
type NullID struct {
	Int64 int64 `json:"Int64"`
	Valid bool  `json:"Valid"`
}

// Chore is one entry of the server's chore snapshot for the viewing user.
// Field names match the JSON the server emits (no tags on the server side).
type Chore struct {
	ID          int    `json:"ID"`
	Name        string `json:"Name"`
	Points      int    `json:"Points"`
	Completed   bool   `json:"Completed"`
	UserID      NullID `json:"UserID"`
	IsAssigned  bool   `json:"IsAssigned"`
	IsClaimable bool   `json:"IsClaimable"`
}

// PointsData holds the chart series, oldest first.
type PointsData struct {
	DailyData  []int `json:"dailyData"`
	WeeklyData []int `json:"weeklyData"`
}

// Snapshot is one successfully fetched chore list together with the
// request sequence that produced it.
type Snapshot struct {
	Seq    uint64
	Chores []Chore
}

// PageContext is resolved once at start-up and passed to renderers.
type PageContext struct {
	Username  string
	ServerURL string
}

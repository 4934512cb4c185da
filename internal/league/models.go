// internal/league/models.go
package league

// Wire types for the upstream league API. Field names follow the upstream
// JSON contract exactly, including its mixed casing on stat fields.

type Team struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Division    string `json:"div"`
	Group       string `json:"group"`
	Logo        string `json:"logo"`
	Address     string `json:"address,omitempty"`
	School      string `json:"school,omitempty"`
	MainColor   string `json:"mainColor,omitempty"`
	SecondColor string `json:"secondColor,omitempty"`
}

type Player struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RealName  string `json:"real_name,omitempty"`
	Year      string `json:"year,omitempty"`
	Major     string `json:"major,omitempty"`
	Hometown  string `json:"hometown,omitempty"`
	FaceitURL string `json:"faceit_url,omitempty"`
	SteamID   string `json:"steam_id,omitempty"`
	Main      bool   `json:"main"`
	Former    bool   `json:"former,omitempty"`
	TeamID    int64  `json:"team_id"`
	TeamSubID *int64 `json:"team_sub_id,omitempty"`
	Team      *Team  `json:"team,omitempty"`
}

// PlayerStat is one player's line on one map. The upstream schema carried
// either KPR or accuracy across revisions; KPR is the canonical field here.
type PlayerStat struct {
	Kills     int     `json:"K"`
	Assists   int     `json:"A"`
	Deaths    int     `json:"D"`
	ADR       float64 `json:"ADR"`
	HSPercent float64 `json:"hs_percent"`
	KPR       float64 `json:"KPR"`
	Player    Player  `json:"player"`
}

type Map struct {
	MapNum      int          `json:"map_num"`
	MapName     string       `json:"map_name"`
	Team1Score  int          `json:"team1_score"`
	Team2Score  int          `json:"team2_score"`
	WinnerID    *int64       `json:"winner_id"`
	Picker      string       `json:"map_picker_name"`
	PlayerStats []PlayerStat `json:"player_stats"`
}

type Match struct {
	ID       int64  `json:"id"`
	Score1   int    `json:"score1"`
	Score2   int    `json:"score2"`
	Datetime string `json:"datetime"`
	Team1    Team   `json:"team1"`
	Team2    Team   `json:"team2"`
	WinnerID *int64 `json:"winner_id"`
	Maps     []Map  `json:"maps"`
}

type Upcoming struct {
	ID             int64             `json:"id"`
	Week           int               `json:"week"`
	Datetime       string            `json:"datetime"`
	Division       string            `json:"division"`
	Casted         bool              `json:"casted"`
	MainStreamName string            `json:"main_stream_name,omitempty"`
	MainStreamURL  string            `json:"main_stream_url,omitempty"`
	Team1Streams   map[string]string `json:"team1_streams,omitempty"`
	Team2Streams   map[string]string `json:"team2_streams,omitempty"`
	Team1          Team              `json:"team1"`
	Team2          Team              `json:"team2"`
}

type Division struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Group struct {
	ID       int64  `json:"id"`
	Division string `json:"division"`
	Name     string `json:"name"`
}

// Placement is one team's final finishing position for a past season.
// Split marks a shared position (two teams tied on the podium).
type Placement struct {
	Placement int    `json:"placement"`
	Division  string `json:"division"`
	Semester  string `json:"semester"`
	Year      int    `json:"year"`
	Split     bool   `json:"split"`
	Team      Team   `json:"team"`
}

// TeamStanding is one row of the upstream-computed standings table.
type TeamStanding struct {
	Team        Team `json:"team"`
	MatchWins   int  `json:"match_wins"`
	MatchLosses int  `json:"match_losses"`
	MapWins     int  `json:"map_wins"`
	MapLosses   int  `json:"map_losses"`
	RoundWins   int  `json:"round_wins"`
	RoundLosses int  `json:"round_losses"`
}

// PlayerAverages is the upstream aggregation of one player's stats
// across all recorded maps.
type PlayerAverages struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Team    string  `json:"team"`
	Kills   int     `json:"K"`
	Deaths  int     `json:"D"`
	Assists int     `json:"A"`
	ADR     float64 `json:"ADR"`
	HS      float64 `json:"HS"`
	KPR     float64 `json:"KPR"`
	Games   int     `json:"games"`
}

// Write-side payloads. The upstream create/edit endpoints key player rows
// by player_id rather than a nested player object.

type PlayerStatPayload struct {
	Kills     int     `json:"K"`
	Assists   int     `json:"A"`
	Deaths    int     `json:"D"`
	ADR       float64 `json:"ADR"`
	HSPercent float64 `json:"hs_percent"`
	KPR       float64 `json:"KPR"`
	PlayerID  int64   `json:"player_id"`
}

type MapPayload struct {
	MapNum      int                 `json:"map_num"`
	MapName     string              `json:"map_name"`
	Team1Score  int                 `json:"team1_score"`
	Team2Score  int                 `json:"team2_score"`
	WinnerID    *int64              `json:"winner_id"`
	Picker      string              `json:"map_picker_name"`
	PlayerStats []PlayerStatPayload `json:"player_stats"`
}

type MatchPayload struct {
	Score1   int          `json:"score1"`
	Score2   int          `json:"score2"`
	Datetime string       `json:"datetime"`
	Team1ID  int64        `json:"team1_id"`
	Team2ID  int64        `json:"team2_id"`
	WinnerID *int64       `json:"winner_id"`
	Maps     []MapPayload `json:"maps"`
}

type UpcomingPayload struct {
	ID             int64             `json:"id,omitempty"`
	Week           int               `json:"week"`
	Datetime       string            `json:"datetime"`
	Division       string            `json:"division"`
	Casted         bool              `json:"casted"`
	MainStreamName string            `json:"main_stream_name,omitempty"`
	MainStreamURL  string            `json:"main_stream_url,omitempty"`
	Team1Streams   map[string]string `json:"team1_streams,omitempty"`
	Team2Streams   map[string]string `json:"team2_streams,omitempty"`
	Team1ID        int64             `json:"team1_id"`
	Team2ID        int64             `json:"team2_id"`
}

type TeamPayload struct {
	Name        string `json:"name"`
	Division    string `json:"div"`
	Group       string `json:"group"`
	Logo        string `json:"logo"`
	Address     string `json:"address,omitempty"`
	School      string `json:"school,omitempty"`
	MainColor   string `json:"mainColor,omitempty"`
	SecondColor string `json:"secondColor,omitempty"`
}

type PlayerPayload struct {
	Name      string `json:"name"`
	RealName  string `json:"real_name,omitempty"`
	Year      string `json:"year,omitempty"`
	Major     string `json:"major,omitempty"`
	Hometown  string `json:"hometown,omitempty"`
	FaceitURL string `json:"faceit_url,omitempty"`
	SteamID   string `json:"steam_id,omitempty"`
	Main      bool   `json:"main"`
	Former    bool   `json:"former,omitempty"`
	TeamID    int64  `json:"team_id"`
	TeamSubID *int64 `json:"team_sub_id,omitempty"`
}

type DivisionPayload struct {
	Name string `json:"name"`
}

type GroupPayload struct {
	Division string `json:"division"`
	Name     string `json:"name"`
}

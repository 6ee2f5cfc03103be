package game

import "time"

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Token struct {
	AccessToken string `json:"access_token"`
}

// Session is one game waiting for the bot, as listed by the service.
type Session struct {
	ID        int64  `json:"id"`
	LastSetup string `json:"last_setup"`
}

type RecoveryRequest struct {
	ID            int64 `json:"id"`
	SetupRequired bool  `json:"setup_required"`
}

type Recovery struct {
	UID int64 `json:"uid"`
}

// JournalEntry is what the bot remembers about one answered position.
type JournalEntry struct {
	SessionID  int64     `json:"session_id" bson:"session_id"`
	UID        int64     `json:"uid" bson:"uid"`
	Turn       int       `json:"turn" bson:"turn"`
	Setup      string    `json:"setup" bson:"setup"`
	Move       string    `json:"move" bson:"move"`
	NextSetup  string    `json:"next_setup" bson:"next_setup"`
	Confidence float64   `json:"confidence" bson:"confidence"`
	Forced     bool      `json:"forced" bson:"forced"`
	SGF        string    `json:"sgf" bson:"sgf"`
	ElapsedMs  int64     `json:"elapsed_ms" bson:"elapsed_ms"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

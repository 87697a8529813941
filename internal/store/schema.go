package store

// schemaSQL mirrors spec.md §3/§6 one-to-one: one table per entity, foreign
// keys cascading from games downward, state/phase stored as fixed-length
// strings. Applied as a single exec'd DDL string at startup.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT,
	is_ai BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS games (
	id UUID PRIMARY KEY,
	state CHAR(9) NOT NULL DEFAULT 'WAITING',
	phase CHAR(15),
	current_turn SMALLINT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at TIMESTAMPTZ,
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS game_players (
	id UUID PRIMARY KEY,
	game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users(id),
	turn_order SMALLINT,
	is_ready BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (game_id, user_id),
	UNIQUE (game_id, turn_order)
);

CREATE TABLE IF NOT EXISTS game_rounds (
	id UUID PRIMARY KEY,
	game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	round_number SMALLINT NOT NULL,
	dealer_player_id UUID REFERENCES game_players(id),
	trump_suit CHAR(1),
	cards_dealt SMALLINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (game_id, round_number)
);

CREATE TABLE IF NOT EXISTS round_hands (
	id UUID PRIMARY KEY,
	round_id UUID NOT NULL REFERENCES game_rounds(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES game_players(id),
	card CHAR(2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_round_hands_round_player ON round_hands(round_id, player_id);

CREATE TABLE IF NOT EXISTS round_bids (
	id UUID PRIMARY KEY,
	round_id UUID NOT NULL REFERENCES game_rounds(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES game_players(id),
	bid SMALLINT NOT NULL,
	UNIQUE (round_id, player_id)
);

CREATE TABLE IF NOT EXISTS round_tricks (
	id UUID PRIMARY KEY,
	round_id UUID NOT NULL REFERENCES game_rounds(id) ON DELETE CASCADE,
	trick_number SMALLINT NOT NULL,
	winner_player_id UUID REFERENCES game_players(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (round_id, trick_number)
);

CREATE TABLE IF NOT EXISTS trick_plays (
	id UUID PRIMARY KEY,
	trick_id UUID NOT NULL REFERENCES round_tricks(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES game_players(id),
	card CHAR(2) NOT NULL,
	play_order SMALLINT NOT NULL,
	UNIQUE (trick_id, player_id)
);

CREATE TABLE IF NOT EXISTS round_scores (
	id UUID PRIMARY KEY,
	round_id UUID NOT NULL REFERENCES game_rounds(id) ON DELETE CASCADE,
	player_id UUID NOT NULL REFERENCES game_players(id),
	tricks_won SMALLINT NOT NULL,
	UNIQUE (round_id, player_id)
);
`

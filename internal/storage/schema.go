package storage

const schema = `
-- Scheduling state for every card served to a (user, deck) pair.
CREATE TABLE IF NOT EXISTS cards (
    user TEXT NOT NULL,
    deck TEXT NOT NULL,
    learnable TEXT NOT NULL,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    context TEXT NOT NULL DEFAULT '',
    stability REAL NOT NULL DEFAULT 0,
    difficulty REAL NOT NULL DEFAULT 0,
    due DATETIME NOT NULL,
    last_review DATETIME,

    PRIMARY KEY (user, deck, learnable)
);

-- Append-only log of every submitted answer.
CREATE TABLE IF NOT EXISTS records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user TEXT NOT NULL,
    deck TEXT NOT NULL,
    learnable TEXT NOT NULL,
    prompt TEXT NOT NULL,
    expected TEXT NOT NULL,
    given TEXT NOT NULL DEFAULT '',
    score REAL NOT NULL,
    created_at DATETIME NOT NULL
);
`

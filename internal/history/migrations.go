package history

const schema = `
CREATE TABLE IF NOT EXISTS history (
    seq           INTEGER PRIMARY KEY AUTOINCREMENT,
    video_id      TEXT NOT NULL UNIQUE,
    title         TEXT NOT NULL DEFAULT '',
    thumbnail_url TEXT NOT NULL DEFAULT '',
    score         REAL NOT NULL DEFAULT 0,
    analyzed_at   DATETIME NOT NULL
);
`

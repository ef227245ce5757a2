package migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInit, downInit)
}

func upInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE users (
		id SERIAL PRIMARY KEY,
		first_name VARCHAR NOT NULL DEFAULT '',
		last_name VARCHAR NOT NULL DEFAULT '',
		avatar_url VARCHAR NOT NULL DEFAULT '',
		role VARCHAR NOT NULL DEFAULT 'MEMBER',
		status VARCHAR NOT NULL DEFAULT 'PENDING'
	);

	CREATE TABLE organizations (
		id SERIAL PRIMARY KEY,
		name VARCHAR NOT NULL
	);

	CREATE TABLE subcategories (
		id SERIAL PRIMARY KEY,
		org_id INTEGER NOT NULL REFERENCES organizations (id),
		name VARCHAR NOT NULL,
		icon VARCHAR NOT NULL DEFAULT ''
	);

	CREATE TABLE activities (
		id SERIAL PRIMARY KEY,
		title VARCHAR NOT NULL,
		subtitle TEXT NOT NULL DEFAULT '',
		category VARCHAR NOT NULL,
		author_id INTEGER NOT NULL REFERENCES users (id),
		org_id INTEGER NOT NULL REFERENCES organizations (id),
		subcategory_id INTEGER REFERENCES subcategories (id),
		youtube_url VARCHAR NOT NULL DEFAULT '',
		single_media_url VARCHAR NOT NULL DEFAULT '',
		multi_media_urls TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX idx_activities_org_created ON activities (org_id, created_at DESC);
	CREATE INDEX idx_activities_subcategory ON activities (subcategory_id);

	CREATE TABLE activity_likes (
		activity_id INTEGER NOT NULL REFERENCES activities (id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (activity_id, user_id)
	);
	`)
	if err != nil {
		return err
	}
	return nil
}

func downInit(tx *sql.Tx) error {
	_, err := tx.Exec(`
	DROP TABLE activity_likes;
	DROP TABLE activities;
	DROP TABLE subcategories;
	DROP TABLE organizations;
	DROP TABLE users;
	`)
	if err != nil {
		return err
	}
	return nil
}

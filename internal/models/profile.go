package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile is the aggregate root for a user's public profile: scalar fields,
// social links, and the two newest-first sub-document lists. Exactly one
// profile exists per user (unique index on "user").
type Profile struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User           bson.ObjectID `bson:"user" json:"-"`
	Company        string        `bson:"company,omitempty" json:"company,omitempty"`
	Website        string        `bson:"website,omitempty" json:"website,omitempty"`
	Location       string        `bson:"location,omitempty" json:"location,omitempty"`
	Status         string        `bson:"status" json:"status"`
	Bio            string        `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string        `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Skills         []string      `bson:"skills" json:"skills"`
	Social         Social        `bson:"social,omitempty" json:"social"`
	Experience     []Experience  `bson:"experience" json:"experience"`
	Education      []Education   `bson:"education" json:"education"`
	Date           time.Time     `bson:"date" json:"date"`
}

type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
}

// Experience and Education entries carry their own generated id so they can
// be removed individually later.
type Experience struct {
	ID          string     `bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Company     string     `bson:"company" json:"company"`
	Location    string     `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time  `bson:"from" json:"from"`
	To          *time.Time `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool       `bson:"current" json:"current"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           string     `bson:"id" json:"id"`
	School       string     `bson:"school" json:"school"`
	Degree       string     `bson:"degree" json:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy,omitempty" json:"fieldofstudy,omitempty"`
	From         time.Time  `bson:"from" json:"from"`
	To           *time.Time `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool       `bson:"current" json:"current"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
}

// ProfileUpdate is a sparse field set for the profile upsert: only the paths
// present in Fields are written, everything else is left untouched in
// storage. Social fields use dotted paths ("social.twitter").
type ProfileUpdate struct {
	Fields map[string]interface{}
}

func NewProfileUpdate() ProfileUpdate {
	return ProfileUpdate{Fields: map[string]interface{}{}}
}

func (u ProfileUpdate) Set(path string, value interface{}) {
	u.Fields[path] = value
}

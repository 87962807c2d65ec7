// Package db holds the postgres tables reference data is read from.
package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TeamRow struct {
	ID      int    `gorm:"primaryKey;autoIncrement:false"`
	Name    string `gorm:"not null"`
	Code    string `gorm:"size:8"`
	Logo    string
	Ranking int
}

func (TeamRow) TableName() string { return "teams" }

type TournamentRow struct {
	ID        int    `gorm:"primaryKey;autoIncrement:false"`
	Name      string `gorm:"not null"`
	StartDate string
	EndDate   string
	Format    string
	Category  string
	Location  string
	Logo      string
	Teams     []TeamRow `gorm:"many2many:tournament_teams;joinForeignKey:TournamentID;joinReferences:TeamID"`
}

func (TournamentRow) TableName() string { return "tournaments" }

// MatchRow is one fixture. Winner stays NULL until the match is completed;
// 0 records a draw.
type MatchRow struct {
	ID            int    `gorm:"primaryKey;autoIncrement:false"`
	TournamentID  int    `gorm:"index;not null"`
	Name          string `gorm:"not null"`
	Status        string `gorm:"not null;default:upcoming"`
	Date          string
	Team1ID       int
	Team1         TeamRow `gorm:"foreignKey:Team1ID"`
	Team2ID       int
	Team2         TeamRow `gorm:"foreignKey:Team2ID"`
	Winner        *int
	Team1Score    string
	Team2Score    string
	ManOfTheMatch string
	Highlights    string
	Format        string
	Venue         string
}

func (MatchRow) TableName() string { return "matches" }

func SetupDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto Migrate
	err = db.AutoMigrate(&TeamRow{}, &TournamentRow{}, &MatchRow{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

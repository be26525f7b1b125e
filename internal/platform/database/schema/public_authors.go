package schema

// AuthorsTable represents the 'authors' table
type AuthorsTable struct {
	Table       string
	ID          string
	FirstName   string
	LastName    string
	Email       string
	BirthDate   string
	Nationality string
	Bio         string
	CreatedAt   string
	UpdatedAt   string
}

// Authors is the schema definition for authors
var Authors = AuthorsTable{
	Table:       "authors",
	ID:          "id",
	FirstName:   "first_name",
	LastName:    "last_name",
	Email:       "email",
	BirthDate:   "birth_date",
	Nationality: "nationality",
	Bio:         "bio",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t AuthorsTable) Columns() []string {
	return []string{t.ID, t.FirstName, t.LastName, t.Email, t.BirthDate, t.Nationality, t.Bio, t.CreatedAt, t.UpdatedAt}
}

package domain

// MPA - возрастной рейтинг Ассоциации кинокомпаний (G, PG, PG-13, R, NC-17).
// Небольшой фиксированный справочник, на который фильмы ссылаются по id.
type MPA struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Genre - жанр фильма из фиксированного справочника.
type Genre struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Director - режиссер фильма.
type Director struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Film представляет фильм каталога.
// Genres, Directors и Likes заполняются при загрузке из хранилища
// (шаг гидратации, см. store).
type Film struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ReleaseDate Date       `json:"releaseDate" db:"release_date"`
	Duration    int64      `json:"duration" db:"duration"`
	MPA         MPA        `json:"mpa" db:"-"`
	Genres      []Genre    `json:"genres" db:"-"`
	Directors   []Director `json:"directors" db:"-"`
	Likes       []int64    `json:"likes,omitempty" db:"-"`
}

// GenreRef и DirectorRef - ссылки по id в телах запросов на создание
// и обновление фильма. Имя подставляется из справочника при чтении.
type GenreRef struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

type DirectorRef struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// MPARef - ссылка на возрастной рейтинг в теле запроса.
type MPARef struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// CreateFilmRequest - тело запроса на создание фильма.
// Ограничение на дату релиза (не раньше 1895-12-28) проверяется
// отдельно, тегами валидатора его не выразить.
type CreateFilmRequest struct {
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"max=200"`
	ReleaseDate Date          `json:"releaseDate"`
	Duration    int64         `json:"duration" validate:"required,gt=0"`
	MPA         MPARef        `json:"mpa" validate:"required"`
	Genres      []GenreRef    `json:"genres" validate:"omitempty,dive"`
	Directors   []DirectorRef `json:"directors" validate:"omitempty,dive"`
}

// UpdateFilmRequest - тело запроса на обновление фильма (полная перезапись).
type UpdateFilmRequest struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name" validate:"required"`
	Description string        `json:"description" validate:"max=200"`
	ReleaseDate Date          `json:"releaseDate"`
	Duration    int64         `json:"duration" validate:"required,gt=0"`
	MPA         MPARef        `json:"mpa" validate:"required"`
	Genres      []GenreRef    `json:"genres" validate:"omitempty,dive"`
	Directors   []DirectorRef `json:"directors" validate:"omitempty,dive"`
}

// CreateDirectorRequest - тело запроса на создание режиссера.
type CreateDirectorRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateDirectorRequest - тело запроса на обновление режиссера.
type UpdateDirectorRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

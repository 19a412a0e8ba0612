package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"moviesapi/internal/service"
)

// ListMovies godoc
// @Summary      List movies
// @Description  Paginated list with optional genre, director, year and rating filters
// @Tags         movies
// @Produce      json
// @Param        page       query  int     false  "Page number (>= 1)"
// @Param        limit      query  int     false  "Page size"
// @Param        sortBy     query  string  false  "title, director, releaseYear, genre, rating or createdAt"
// @Param        sortOrder  query  string  false  "asc or desc"
// @Param        genre      query  string  false  "Genre contains (case-insensitive)"
// @Param        director   query  string  false  "Director contains (case-insensitive)"
// @Param        year       query  int     false  "Exact release year"
// @Param        minRating  query  number  false  "Minimum rating"
// @Param        maxRating  query  number  false  "Maximum rating"
// @Success      200  {object}  service.Envelope
// @Failure      400  {object}  service.Envelope
// @Router       /movies [get]
func ListMovies(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext(), c.Queries())
		return respond(c, res, err)
	}
}

// SearchMovies godoc
// @Summary  Search movies by title
// @Tags     movies
// @Produce  json
// @Param    search  query  string  true   "Title contains (case-insensitive)"
// @Param    page    query  int     false  "Page number"
// @Param    limit   query  int     false  "Page size"
// @Success  200  {object}  service.Envelope
// @Failure  400  {object}  service.Envelope
// @Router   /movies/search [get]
func SearchMovies(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Queries()
		term := params["search"]
		delete(params, "search")
		res, err := svc.Search(c.UserContext(), term, params)
		return respond(c, res, err)
	}
}

// MovieStats godoc
// @Summary  Collection statistics
// @Tags     movies
// @Produce  json
// @Success  200  {object}  service.Envelope{data=model.Statistics}
// @Router   /movies/stats [get]
func MovieStats(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Stats(c.UserContext())
		return respond(c, res, err)
	}
}

// MoviesByGenre godoc
// @Summary  Movies in a genre
// @Tags     movies
// @Produce  json
// @Param    genre  path  string  true  "Genre"
// @Success  200  {object}  service.Envelope{data=[]model.Movie}
// @Failure  400  {object}  service.Envelope
// @Router   /movies/genre/{genre} [get]
func MoviesByGenre(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		genre, err := url.PathUnescape(c.Params("genre"))
		if err != nil {
			genre = c.Params("genre")
		}
		res, err := svc.ByGenre(c.UserContext(), genre)
		return respond(c, res, err)
	}
}

// GetMovie godoc
// @Summary  Get a movie
// @Tags     movies
// @Produce  json
// @Param    id  path  string  true  "Movie ID (24 hex characters)"
// @Success  200  {object}  service.Envelope{data=model.Movie}
// @Failure  400  {object}  service.Envelope
// @Failure  404  {object}  service.Envelope
// @Router   /movies/{id} [get]
func GetMovie(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Get(c.UserContext(), c.Params("id"))
		return respond(c, res, err)
	}
}

// CreateMovie godoc
// @Summary  Create a movie
// @Tags     movies
// @Accept   json
// @Produce  json
// @Param    movie  body  model.MoviePatch  true  "Movie"
// @Success  201  {object}  service.Envelope{data=model.Movie}
// @Failure  400  {object}  service.Envelope
// @Router   /movies [post]
func CreateMovie(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := decodeObject(c.Body())
		if err != nil {
			return err
		}
		res, err := svc.Create(c.UserContext(), body)
		return respond(c, res, err)
	}
}

// UpdateMovie godoc
// @Summary  Partially update a movie
// @Tags     movies
// @Accept   json
// @Produce  json
// @Param    id     path  string            true  "Movie ID"
// @Param    movie  body  model.MoviePatch  true  "Fields to change"
// @Success  200  {object}  service.Envelope{data=model.Movie}
// @Failure  400  {object}  service.Envelope
// @Failure  404  {object}  service.Envelope
// @Router   /movies/{id} [put]
func UpdateMovie(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := decodeObject(c.Body())
		if err != nil {
			return err
		}
		res, err := svc.Update(c.UserContext(), c.Params("id"), body)
		return respond(c, res, err)
	}
}

// DeleteMovie godoc
// @Summary  Delete a movie
// @Tags     movies
// @Produce  json
// @Param    id  path  string  true  "Movie ID"
// @Success  200  {object}  service.Envelope{data=model.Movie}
// @Failure  400  {object}  service.Envelope
// @Failure  404  {object}  service.Envelope
// @Router   /movies/{id} [delete]
func DeleteMovie(svc service.MovieService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Delete(c.UserContext(), c.Params("id"))
		return respond(c, res, err)
	}
}

// decodeObject parses a JSON object body keeping numbers as json.Number. An
// empty body or a literal null decodes to an empty object; anything that is
// not an object is errInvalidJSON.
func decodeObject(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, errInvalidJSON
	}
	// Anything after the object, including a stray closing bracket, is malformed.
	if _, err := dec.Token(); err != io.EOF {
		return nil, errInvalidJSON
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}

package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type mockMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int64 `json:"genre_ids"`
	Cast        []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"cast"`
}

func main() {
	var (
		port = flag.String("port", "9099", "port to listen on")
		data = flag.String("data", "mock-catalog.json", "path to mock data file")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var movies []mockMovie
	if err := json.Unmarshal(file, &movies); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	byID := make(map[int64]mockMovie, len(movies))
	for _, movie := range movies {
		byID[movie.ID] = movie
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/discover/movie", func(w http.ResponseWriter, r *http.Request) {
		genreID, _ := strconv.ParseInt(r.URL.Query().Get("with_genres"), 10, 64)
		actorID, _ := strconv.ParseInt(r.URL.Query().Get("with_cast"), 10, 64)

		var results []mockMovie
		for _, movie := range movies {
			if genreID != 0 && !containsID(movie.GenreIDs, genreID) {
				continue
			}
			if actorID != 0 && !hasCastMember(movie, actorID) {
				continue
			}
			results = append(results, movie)
		}
		writeResults(w, results)
	})

	mux.HandleFunc("/movie/popular", func(w http.ResponseWriter, r *http.Request) {
		writeResults(w, movies)
	})

	mux.HandleFunc("/movie/", func(w http.ResponseWriter, r *http.Request) {
		// Expected shape: /movie/{id}/credits
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[2] != "credits" {
			http.NotFound(w, r)
			return
		}
		movieID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		movie, ok := byID[movieID]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]interface{}{"cast": movie.Cast}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	log.Printf("mock catalog listening on %s (%d movies)", addr, len(movies))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func containsID(ids []int64, target int64) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func hasCastMember(movie mockMovie, actorID int64) bool {
	for _, member := range movie.Cast {
		if member.ID == actorID {
			return true
		}
	}
	return false
}

func writeResults(w http.ResponseWriter, results []mockMovie) {
	if results == nil {
		results = []mockMovie{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"results": results}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

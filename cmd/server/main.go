package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"

	"demand_generator/internal/api"
	"demand_generator/internal/bdew"
	"demand_generator/internal/generator"
	"demand_generator/internal/ingest"
	"demand_generator/internal/model"
	"demand_generator/internal/vdi"
	"demand_generator/internal/ws"
)

func main() {
	// Flag defaults come from the environment, optionally via a .env file.
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("ADDR", ":8080"), "listen address")
	weatherFile := flag.String("weather-file", envOr("WEATHER_FILE", ""), "weather input file (DWD TRY or CSV)")
	weatherFormat := flag.String("weather-format", envOr("WEATHER_FORMAT", "csv"), "weather file format: try or csv")
	weatherYear := flag.Int("weather-year", envOrInt("WEATHER_YEAR", 0), "calendar year of a TRY weather file")
	holidayFile := flag.String("holiday-file", envOr("HOLIDAY_FILE", ""), "holiday CSV file")
	frontendDir := flag.String("frontend-dir", envOr("FRONTEND_DIR", "frontend/build"), "directory containing frontend build")
	flag.Parse()

	weather, err := loadWeather(*weatherFile, *weatherFormat, *weatherYear)
	if err != nil {
		log.Fatalf("Failed to load weather: %v", err)
	}

	holidays, err := loadHolidays(*holidayFile)
	if err != nil {
		log.Fatalf("Failed to load holidays: %v", err)
	}

	bdewTables, err := bdew.Default()
	if err != nil {
		log.Fatalf("Failed to load BDEW tables: %v", err)
	}
	vdiTables, err := vdi.Default()
	if err != nil {
		log.Fatalf("Failed to load VDI tables: %v", err)
	}

	gen := generator.New(bdewTables, vdiTables, weather, holidays)

	// Routes
	hub := ws.NewHub()
	router := api.NewServer(gen).Router()
	router.Handle("/ws", ws.NewHandler(hub, gen))

	// Serve frontend static files
	if _, err := os.Stat(*frontendDir); err == nil {
		log.Printf("Serving frontend from %s", *frontendDir)
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(*frontendDir)))
	}

	srv := &http.Server{
		Addr:    *addr,
		Handler: handlers.LoggingHandler(os.Stdout, router),
	}

	go func() {
		log.Printf("Starting server on %s", *addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	hub.CloseAll()
}

// loadWeather reads the configured weather file. An empty path yields an
// empty series; electrical and industrial profiles work without weather.
func loadWeather(path, format string, year int) (model.WeatherSeries, error) {
	if path == "" {
		log.Println("No weather file configured; heat and VDI profiles unavailable")
		return model.WeatherSeries{}, nil
	}

	log.Printf("Loading %s weather from %s", format, path)
	var weather model.WeatherSeries
	var err error
	switch format {
	case "try":
		weather, err = ingest.ParseTRYFile(path, year)
	case "csv":
		weather, err = ingest.ParseWeatherCSVFile(path)
	default:
		return model.WeatherSeries{}, fmt.Errorf("unknown weather format %q", format)
	}
	if err != nil {
		return model.WeatherSeries{}, err
	}

	temp := weather.Temperature
	log.Printf("Weather loaded: %s to %s (%d points)",
		temp.Start.Format("2006-01-02"), temp.End().Format("2006-01-02"), temp.Len())
	return weather, nil
}

// loadHolidays reads the configured holiday file. An empty path yields an
// empty set; all days then classify by weekday alone.
func loadHolidays(path string) (*model.HolidaySet, error) {
	if path == "" {
		return nil, nil
	}

	set, err := ingest.ParseHolidayCSVFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d holidays from %s", set.Len(), path)
	return set, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: cannot parse %s=%q as int, using %d", key, value, fallback)
		return fallback
	}
	return parsed
}

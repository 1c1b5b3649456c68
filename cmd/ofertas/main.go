package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Cheertaboi/ofertas-service/internal/browse"
	"github.com/Cheertaboi/ofertas-service/internal/client"
	"github.com/Cheertaboi/ofertas-service/internal/models"
	"github.com/Cheertaboi/ofertas-service/internal/prefs"
)

const usage = "expected one of: list, show <id>, delete <id>, submit -file <path>, options, view grid|list"

var sortFieldHelp = string(models.SortByPublication) + " or " + string(models.SortByCreation)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	category := listCmd.String("category", "", "filter by category")
	merchant := listCmd.String("merchant", "", "filter by merchant")
	coupon := listCmd.String("coupon", "", "yes or no: only offers with or without a coupon")
	onlyValid := listCmd.Bool("valid", false, "hide expired offers")
	search := listCmd.String("search", "", "text search")
	page := listCmd.Int("page", 1, "page number")
	size := listCmd.Int("size", models.DefaultPageSize, "page size")
	sortField := listCmd.String("sort", string(models.SortByPublication), sortFieldHelp)
	sortDir := listCmd.String("dir", string(models.SortDesc), "asc or desc")

	submitCmd := flag.NewFlagSet("submit", flag.ExitOnError)
	submitFile := submitCmd.String("file", "", "JSON file with an array of offers")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	api := client.New(apiURL())
	store, err := openPrefs()
	if err != nil {
		log.Warn().Err(err).Msg("preferences unavailable, using defaults")
	}

	state := browse.New()
	if store != nil {
		state.Load(store)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		f := models.Filters{Category: *category, Merchant: *merchant, OnlyValid: *onlyValid, Search: *search}
		switch *coupon {
		case "yes":
			f.HasCoupon = ptr(true)
		case "no":
			f.HasCoupon = ptr(false)
		}
		state.SetFilters(f)
		state.SetSorting(models.SortField(*sortField), models.SortDirection(*sortDir))
		state.SetPageSize(*size)
		state.SetPage(*page)
		doList(ctx, api, state)
	case "show":
		doShow(ctx, api, arg(2))
	case "delete":
		id := arg(2)
		if err := api.DeleteOffer(ctx, id); err != nil {
			log.Fatal().Err(err).Str("id", id).Msg("delete failed")
		}
		fmt.Printf("deleted %s\n", id)
	case "submit":
		submitCmd.Parse(os.Args[2:])
		if *submitFile == "" {
			submitCmd.PrintDefaults()
			os.Exit(1)
		}
		doSubmit(ctx, api, *submitFile)
	case "options":
		opts, err := api.FilterOptions(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("filter options failed")
		}
		renderOptions(os.Stdout, opts)
	case "view":
		state.SetViewMode(browse.ViewMode(arg(2)))
		if store == nil {
			log.Fatal().Msg("no preference store to save to")
		}
		if err := state.Save(store); err != nil {
			log.Fatal().Err(err).Msg("save preference failed")
		}
		fmt.Printf("view mode: %s\n", state.ViewMode)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func apiURL() string {
	if u := os.Getenv("OFERTAS_API_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func openPrefs() (*prefs.FileStore, error) {
	path, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	return prefs.OpenFileStore(path)
}

func arg(i int) string {
	if len(os.Args) <= i {
		fmt.Println(usage)
		os.Exit(1)
	}
	return os.Args[i]
}

func doList(ctx context.Context, api *client.Client, state *browse.State) {
	res, err := api.ListOffers(ctx, state.Query())
	if err != nil {
		log.Fatal().Err(err).Msg("list failed")
	}
	renderPage(os.Stdout, state, res)
}

func doShow(ctx context.Context, api *client.Client, id string) {
	v, err := api.GetOffer(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Str("id", id).Msg("show failed")
	}
	renderDetail(os.Stdout, *v)
}

func doSubmit(ctx context.Context, api *client.Client, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("open file")
	}
	defer file.Close()

	var items []models.OfferInput
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		log.Fatal().Err(err).Msg("decode file")
	}

	views, err := api.SubmitOffers(ctx, items)
	if err != nil {
		log.Fatal().Err(err).Msg("submit failed")
	}
	for _, v := range views {
		fmt.Printf("created %s  %s\n", v.ID, v.Title)
	}
	log.Info().Int("count", len(views)).Msg("submitted offers")
}

func ptr[T any](v T) *T { return &v }

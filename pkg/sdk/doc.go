// Package dinerank provides an embeddable Go client for cross-source
// restaurant discovery and review analysis, backed by Google Places and
// Yelp Fusion with an optional Redis result cache.
//
// # Quick start
//
//	client, _ := dinerank.New(ctx,
//	    dinerank.WithGooglePlaces(os.Getenv("GOOGLE_PLACES_API_KEY")),
//	    dinerank.WithYelp(os.Getenv("YELP_API_KEY")),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, dinerank.SearchQuery{
//	    Query:    "ramen",
//	    Location: "Portland, OR",
//	})
//	for _, r := range res.Restaurants {
//	    fmt.Println(r.Name, r.Score)
//	}
//
// # Review analysis
//
//	a, _ := client.Analyze(ctx, dinerank.AnalysisQuery{
//	    GoogleID: res.Restaurants[0].SourceID("google"),
//	    YelpID:   res.Restaurants[0].SourceID("yelp"),
//	    Name:     res.Restaurants[0].Name,
//	})
//	fmt.Println(a.UnifiedScore, a.Trend)
//
// Custom platforms can be plugged in with WithListingSources and
// WithReviewSources; NewStaticSource builds an in-memory platform from
// fixed data, useful for tests and offline use.
package dinerank

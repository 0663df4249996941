// Package admin aggregates the platform figures shown on the back office
// landing view.
package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	dErrors "motorlane/pkg/domain-errors"
)

// Counter reports the size of one collection. Every domain store satisfies
// it.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Overview is the aggregated platform snapshot.
type Overview struct {
	Listings int `json:"listings"`
	Users    int `json:"users"`
	Articles int `json:"articles"`
	Leads    int `json:"leads"`
}

// Service fetches the overview. The four counts are independent reads and
// are issued concurrently.
type Service struct {
	listings Counter
	users    Counter
	articles Counter
	leads    Counter
}

func New(listings, users, articles, leads Counter) *Service {
	return &Service{listings: listings, users: users, articles: articles, leads: leads}
}

func (s *Service) Fetch(ctx context.Context) (Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.Listings, err = s.listings.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Users, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Articles, err = s.articles.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Leads, err = s.leads.Count(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return Overview{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch overview")
	}
	return out, nil
}

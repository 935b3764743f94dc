// Package analyzer qualifies listings against explicit threshold rules and
// derives the weak points and pitch line stored on a new lead. It is a pure
// function of (listing, rules): no store lookups, no ambient settings.
package analyzer

import (
	"fmt"

	"prospector/internal/config"
	"prospector/internal/domain"
)

const (
	lowRatingBar  = 4.5
	fewReviewsBar = 50
)

// Analyze evaluates one listing. Weak points are heuristics for the sales
// pitch; the qualified flag applies the hard thresholds from rules.
func Analyze(l domain.Listing, rules config.Rules) domain.Analysis {
	a := domain.Analysis{Qualified: true, WeakPoints: []string{}}

	if l.Rating > 0 && l.Rating < lowRatingBar {
		a.WeakPoints = append(a.WeakPoints, fmt.Sprintf("Low rating (%.1f)", l.Rating))
	}
	if l.ReviewCount > 0 && l.ReviewCount < fewReviewsBar {
		a.WeakPoints = append(a.WeakPoints, fmt.Sprintf("Few reviews (%d)", l.ReviewCount))
	}
	if l.Website == "" {
		a.WeakPoints = append(a.WeakPoints, "No website")
	}
	if l.Phone == "" {
		a.WeakPoints = append(a.WeakPoints, "No phone number")
	}

	if l.Rating > 0 && (l.Rating < rules.MinRating || l.Rating > rules.MaxRating) {
		a.Qualified = false
	}
	if l.ReviewCount > 0 && (l.ReviewCount < rules.MinReviews || l.ReviewCount > rules.MaxReviews) {
		a.Qualified = false
	}
	if rules.RequireWebsite && l.Website == "" {
		a.Qualified = false
	}

	a.SuggestedPitch = pitchFor(l)
	return a
}

func pitchFor(l domain.Listing) string {
	switch {
	case l.Website == "":
		return fmt.Sprintf("Hi, I noticed %s doesn't have a website yet - we build sites that turn searches into customers.", l.Title)
	case l.Rating > 0 && l.Rating < lowRatingBar:
		return fmt.Sprintf("Hi, I saw %s is sitting at %.1f stars - we help businesses turn their online reputation around.", l.Title, l.Rating)
	case l.ReviewCount > 0 && l.ReviewCount < fewReviewsBar:
		return fmt.Sprintf("Hi, %s only has %d reviews - we help businesses get found and reviewed more often.", l.Title, l.ReviewCount)
	default:
		return fmt.Sprintf("Hi, I came across %s and think we could help bring in more customers.", l.Title)
	}
}

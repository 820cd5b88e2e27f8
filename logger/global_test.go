package logger

import "testing"

func TestStringToSlug(t *testing.T) {
	t.Run("Spaces", func(t *testing.T) {
		if slug := StringToSlug("Toy Story"); slug != "toy-story" {
			t.Error("wrong slug: ", slug)
		}
	})
	t.Run("Umlauts", func(t *testing.T) {
		if slug := StringToSlug("Über Männer"); slug != "ueber-maenner" {
			t.Error("wrong slug: ", slug)
		}
	})
	t.Run("Punctuation", func(t *testing.T) {
		if slug := StringToSlug("Seven (a.k.a. Se7en)"); slug != "seven-a-k-a-se7en" {
			t.Error("wrong slug: ", slug)
		}
	})
	t.Run("Accents", func(t *testing.T) {
		if slug := StringToSlug("Amélie"); slug != "amelie" {
			t.Error("wrong slug: ", slug)
		}
	})
	t.Run("TrimDashes", func(t *testing.T) {
		if slug := StringToSlug(" (Movie) "); slug != "movie" {
			t.Error("wrong slug: ", slug)
		}
	})
}

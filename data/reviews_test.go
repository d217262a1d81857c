package data

import "testing"

func TestRatingAdd(t *testing.T) {
	var rating Rating
	for _, r := range []int8{5, 5, 4, 3, 1} {
		rating.Add(r)
	}
	if rating.FiveStars != 2 || rating.FourStars != 1 || rating.ThreeStars != 1 || rating.TwoStars != 0 || rating.OneStar != 1 {
		t.Errorf("unexpected distribution: %+v", rating)
	}
	if rating.Total != 5 {
		t.Errorf("Total = %d; want 5", rating.Total)
	}
}

func TestRatingAddOutOfRange(t *testing.T) {
	var rating Rating
	rating.Add(0)
	rating.Add(6)
	if rating.FiveStars+rating.FourStars+rating.ThreeStars+rating.TwoStars+rating.OneStar != 0 {
		t.Errorf("out of range ratings must not land in a bucket: %+v", rating)
	}
	if rating.Total != 0 {
		t.Errorf("Total = %d; want 0 so the buckets always sum to the total", rating.Total)
	}
}

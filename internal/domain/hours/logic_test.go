package hours

import "testing"

func TestValidateDaily(t *testing.T) {
	if err := ValidateDaily([7]float64{8, 8, 8, 8, 8, 0, 0}); err != nil {
		t.Fatalf("normal week should validate: %v", err)
	}
	if err := ValidateDaily([7]float64{0, 0, 0, 0, 0, 0, 24}); err != nil {
		t.Fatalf("24-hour day is the boundary and allowed: %v", err)
	}
	if err := ValidateDaily([7]float64{0, -1, 0, 0, 0, 0, 0}); err == nil {
		t.Fatal("negative hours should fail")
	}
	if err := ValidateDaily([7]float64{0, 0, 0, 24.5, 0, 0, 0}); err == nil {
		t.Fatal("more than 24 hours in a day should fail")
	}
}

func TestTotalRoundsEachStep(t *testing.T) {
	if got := Total([7]float64{8, 8, 8, 8, 8, 0, 0}); got != 40.00 {
		t.Fatalf("Total = %v, want 40", got)
	}
	if got := Total([7]float64{0.10, 0.10, 0.10, 0, 0, 0, 0}); got != 0.30 {
		t.Fatalf("Total of three tenths = %v, want 0.30", got)
	}
	if got := Total([7]float64{}); got != 0 {
		t.Fatalf("empty Total = %v, want 0", got)
	}
}

package linebatch

import "testing"

func TestBox3Empty(t *testing.T) {
	box := EmptyBox3()
	if !box.IsEmpty() {
		t.Fatal("EmptyBox3() should be empty")
	}
	if box.Size() != (Vec3{}) {
		t.Errorf("Size() of empty box = %+v, want zero", box.Size())
	}

	box = box.ExpandByPoint(V3(1, 2, 3))
	if box.IsEmpty() {
		t.Fatal("box should not be empty after ExpandByPoint")
	}
	if box.Min != V3(1, 2, 3) || box.Max != V3(1, 2, 3) {
		t.Errorf("single-point box = %+v", box)
	}
}

func TestBox3Union(t *testing.T) {
	a := B3(0, 0, 0, 1, 1, 1)
	b := B3(2, -1, 0, 3, 0.5, 2)

	got := a.Union(b)
	want := B3(0, -1, 0, 3, 1, 2)
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}

	if a.Union(EmptyBox3()) != a {
		t.Error("union with empty box should be identity")
	}
	if EmptyBox3().Union(a) != a {
		t.Error("union of empty box with a box should return the box")
	}
}

func TestBox3Queries(t *testing.T) {
	box := B3(0, 0, 0, 2, 2, 2)

	if box.Center() != V3(1, 1, 1) {
		t.Errorf("Center() = %+v, want (1,1,1)", box.Center())
	}
	if box.Size() != V3(2, 2, 2) {
		t.Errorf("Size() = %+v, want (2,2,2)", box.Size())
	}
	if !box.ContainsPoint(V3(1, 1, 1)) || !box.ContainsPoint(V3(0, 0, 0)) {
		t.Error("box should contain interior and boundary points")
	}
	if box.ContainsPoint(V3(3, 1, 1)) {
		t.Error("box should not contain outside points")
	}
	if !box.IntersectsBox(B3(1, 1, 1, 3, 3, 3)) {
		t.Error("overlapping boxes should intersect")
	}
	if box.IntersectsBox(B3(5, 5, 5, 6, 6, 6)) {
		t.Error("disjoint boxes should not intersect")
	}

	grown := box.ExpandByScalar(1)
	if grown != B3(-1, -1, -1, 3, 3, 3) {
		t.Errorf("ExpandByScalar(1) = %+v", grown)
	}
}

func TestSphereContainsPoint(t *testing.T) {
	s := Sphere{Center: V3(0, 0, 0), Radius: 2}
	if !s.ContainsPoint(V3(1, 1, 0)) {
		t.Error("sphere should contain interior point")
	}
	if s.ContainsPoint(V3(2, 2, 0)) {
		t.Error("sphere should not contain outside point")
	}
	if !(Sphere{Radius: -1}).IsEmpty() {
		t.Error("negative radius sphere should be empty")
	}
}

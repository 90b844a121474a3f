package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.core")
	defer teardown()
	//
	d, _, err := ParseDimen("12px")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12*PX {
		t.Errorf("(1) expected d to be 12px, is %s", d)
	}
	//
	d, _, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %s", d)
	}
	//
	d, ispcnt, err := ParseDimen("50%")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if ispcnt != true {
		t.Errorf("(3) expected percentage-marker to be true, is %v", ispcnt)
	} else if d != 50 {
		t.Errorf("(3) expected percentage value to be 50, is %s", d)
	}
	//
	d, _, err = ParseDimen("10.5px")
	assert.NoError(t, err)
	assert.Equal(t, Dimen(10.5), d)
	//
	_, _, err = ParseDimen("large")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestRectJoin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.core")
	defer teardown()
	//
	r := XYWH(10, 10, 20, 20).Join(XYWH(0, 5, 5, 5))
	assert.Equal(t, LTRB(0, 5, 30, 30), r)
	r = EmptyRect.Join(XYWH(1, 2, 3, 4))
	assert.Equal(t, XYWH(1, 2, 3, 4), r)
	r = XYWH(1, 2, 3, 4).Join(EmptyRect)
	assert.Equal(t, XYWH(1, 2, 3, 4), r)
}

func TestRectIntersect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyweb.core")
	defer teardown()
	//
	a, b := XYWH(0, 0, 10, 10), XYWH(5, 5, 10, 10)
	assert.True(t, a.Intersects(b))
	assert.Equal(t, LTRB(5, 5, 10, 10), a.Intersect(b))
	assert.False(t, a.Intersects(XYWH(20, 20, 1, 1)))
	assert.True(t, a.Intersect(XYWH(20, 20, 1, 1)).IsEmpty())
	assert.True(t, a.Contains(Point{0, 9}))
	assert.False(t, a.Contains(Point{10, 0}))
}

func TestDPX(t *testing.T) {
	assert.Equal(t, Dimen(26), DPX(13, 2))
	assert.Equal(t, Dimen(13), DPX(13, 1))
}

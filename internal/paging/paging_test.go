package paging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dracker/dracker/internal/paging"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   paging.ListQuery
		want paging.ListQuery
	}{
		{
			name: "Zero value gets the default page size",
			in:   paging.ListQuery{},
			want: paging.ListQuery{Take: paging.TakeDefault},
		},
		{
			name: "Negative skip is clamped",
			in:   paging.ListQuery{Skip: -5, Take: 10},
			want: paging.ListQuery{Skip: 0, Take: 10},
		},
		{
			name: "Oversized take is capped",
			in:   paging.ListQuery{Take: 5000},
			want: paging.ListQuery{Take: paging.TakeMax},
		},
		{
			name: "Valid values pass through",
			in:   paging.ListQuery{Skip: 40, Take: 20, Sort: "name", Desc: true, Q: "van"},
			want: paging.ListQuery{Skip: 40, Take: 20, Sort: "name", Desc: true, Q: "van"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

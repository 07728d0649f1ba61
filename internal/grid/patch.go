package grid

// Patch is a partial item as reported by a rendering surface. Nil fields are
// absent and leave the stored value unchanged.
type Patch struct {
	ID   string `json:"i"`
	X    *int   `json:"x,omitempty"`
	Y    *int   `json:"y,omitempty"`
	W    *int   `json:"w,omitempty"`
	H    *int   `json:"h,omitempty"`
	MinW *int   `json:"minW,omitempty"`
	MinH *int   `json:"minH,omitempty"`
	MaxW *int   `json:"maxW,omitempty"`
	MaxH *int   `json:"maxH,omitempty"`
}

// Patch returns a patch carrying every field of the item.
func (it Item) Patch() Patch {
	return Patch{
		ID:   it.ID,
		X:    intPtr(it.X),
		Y:    intPtr(it.Y),
		W:    intPtr(it.W),
		H:    intPtr(it.H),
		MinW: intPtr(it.MinW),
		MinH: intPtr(it.MinH),
		MaxW: intPtr(it.MaxW),
		MaxH: intPtr(it.MaxH),
	}
}

// Apply overlays the fields present in p onto it. The id is taken from it.
func (p Patch) Apply(it Item) Item {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&it.X, p.X)
	set(&it.Y, p.Y)
	set(&it.W, p.W)
	set(&it.H, p.H)
	set(&it.MinW, p.MinW)
	set(&it.MinH, p.MinH)
	set(&it.MaxW, p.MaxW)
	set(&it.MaxH, p.MaxH)
	return it
}

// Item builds an item from the patch alone; absent fields stay zero.
func (p Patch) Item() Item {
	return p.Apply(Item{ID: p.ID})
}

func intPtr(v int) *int { return &v }

package ports

// Surface is one renderable target bound to fixed dimensions and one
// pixel layout. It is invalidated (destroyed and recreated by its owner)
// whenever either changes.
type Surface interface {
	// Update uploads the picture's planes to the surface. The picture's
	// dimensions and layout must match the surface's.
	Update(pic *Picture) error

	// Present shows the surface's current contents.
	Present() error

	// Destroy releases the surface. The handle must not be used after.
	Destroy()
}

// Display abstracts the window-system collaborator: surface creation and
// the stop signal. Window creation/resizing happens behind this port.
type Display interface {
	// SupportsLayout reports whether pictures in the given layout can
	// be presented directly, without a pixel-format conversion.
	SupportsLayout(layout PixelLayout) bool

	// CreateSurface allocates a surface sized to the given dimensions
	// and bound to the given layout.
	CreateSurface(width, height int, layout PixelLayout) (Surface, error)

	// PollStop drains pending window-system events and reports whether
	// a quit request (window close, quit key) arrived. Non-blocking.
	PollStop() bool

	// Close tears the display down.
	Close()
}

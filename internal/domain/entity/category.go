package entity

// Category representa una categoría de productos. Los productos la
// referencian por nombre, no por id.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"` // único
	Description string `json:"description,omitempty"`
}

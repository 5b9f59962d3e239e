package book

// Request carries the client-supplied fields for create and update.
type Request struct {
	Title         string `json:"title" validate:"required"`
	Author        string `json:"author" validate:"required"`
	PublishedYear int    `json:"publishedYear" validate:"gte=1500,published_year"`
}

// Response is the wire shape of a single book.
type Response struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedYear int    `json:"publishedYear"`
}

// ToEntity builds a new book from a request. Nil in, nil out.
func ToEntity(req *Request) *Book {
	if req == nil {
		return nil
	}
	return &Book{
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: req.PublishedYear,
	}
}

// ToResponse maps a persisted book to its wire shape. Nil in, nil out.
func ToResponse(b *Book) *Response {
	if b == nil {
		return nil
	}
	return &Response{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
	}
}

// ApplyUpdate copies every request field onto an existing book, leaving
// the id untouched. No-op when either argument is nil.
func ApplyUpdate(b *Book, req *Request) {
	if b == nil || req == nil {
		return
	}
	b.Title = req.Title
	b.Author = req.Author
	b.PublishedYear = req.PublishedYear
}

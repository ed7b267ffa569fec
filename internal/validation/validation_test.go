package validation

import (
	"strings"
	"testing"

	"github.com/dadok/readingclub/internal/domain"
)

func TestValidateNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		wantErr  bool
	}{
		{"valid ascii", "reader", false},
		{"valid hangul", "책벌레", false},
		{"valid mixed", "독서_go-1", false},
		{"minimum length", "ab", false},
		{"maximum length", "abcdefghij", false},
		{"too short", "a", true},
		{"too long", "abcdefghijk", true},
		{"empty", "", true},
		{"contains space", "book worm", true},
		{"contains dot", "book.worm", true},
		{"contains emoji", "book📚", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNickname(tt.nickname)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNickname(%q) error = %v, wantErr %v", tt.nickname, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"https", "https://example.com/book/1", false},
		{"http", "http://example.com", false},
		{"relative", "/book/1", true},
		{"ftp", "ftp://example.com/file", true},
		{"too long", "https://example.com/" + strings.Repeat("a", URLMaxLength), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func validBook() domain.BookCreateRequest {
	return domain.BookCreateRequest{
		Title:       "Effective Java",
		Author:      "Joshua Bloch",
		ISBN:        "9780134685991",
		Contents:    "Best practices for the Java platform",
		URL:         "https://example.com/effective-java",
		ImageURL:    "https://example.com/effective-java.png",
		Publisher:   "Addison-Wesley",
		APIProvider: "KAKAO",
	}
}

func TestValidateBook(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.BookCreateRequest)
		wantField string
	}{
		{"valid", func(*domain.BookCreateRequest) {}, ""},
		{"empty title", func(b *domain.BookCreateRequest) { b.Title = "" }, "book.title"},
		{"long title", func(b *domain.BookCreateRequest) { b.Title = strings.Repeat("t", BookTitleMaxLength+1) }, "book.title"},
		{"empty author", func(b *domain.BookCreateRequest) { b.Author = "" }, "book.author"},
		{"short isbn", func(b *domain.BookCreateRequest) { b.ISBN = "123456789" }, "book.isbn"},
		{"long isbn", func(b *domain.BookCreateRequest) { b.ISBN = strings.Repeat("1", ISBNMaxLength+1) }, "book.isbn"},
		{"empty contents", func(b *domain.BookCreateRequest) { b.Contents = "" }, "book.contents"},
		{"bad image url", func(b *domain.BookCreateRequest) { b.ImageURL = "not a url" }, "book.imageUrl"},
		{"long provider", func(b *domain.BookCreateRequest) { b.APIProvider = strings.Repeat("p", APIProviderMaxLength+1) }, "book.apiProvider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			tt.mutate(&b)
			errs := ValidateBook(b, "book.")
			if tt.wantField == "" {
				if errs.HasErrors() {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, errs[0].Field)
			}
		})
	}
}

func validGroup(t *testing.T) domain.BookGroupCreateRequest {
	t.Helper()
	start, err := domain.ParseDate("2026-03-01")
	if err != nil {
		t.Fatal(err)
	}
	end, err := domain.ParseDate("2026-03-31")
	if err != nil {
		t.Fatal(err)
	}
	return domain.BookGroupCreateRequest{
		Book:           validBook(),
		Title:          "Effective Java study",
		StartDate:      start,
		EndDate:        end,
		MaxMemberCount: 5,
		Introduce:      "One chapter a week",
		IsPublic:       true,
	}
}

func TestValidateGroupCreate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.BookGroupCreateRequest)
		wantField string
	}{
		{"valid", func(*domain.BookGroupCreateRequest) {}, ""},
		{"same day", func(g *domain.BookGroupCreateRequest) { g.EndDate = g.StartDate }, ""},
		{"with password and question", func(g *domain.BookGroupCreateRequest) {
			g.JoinQuestion = "Favourite item?"
			g.JoinPassword = "item42"
		}, ""},
		{"empty title", func(g *domain.BookGroupCreateRequest) { g.Title = "" }, "title"},
		{"end before start", func(g *domain.BookGroupCreateRequest) { g.StartDate, g.EndDate = g.EndDate, g.StartDate }, "endDate"},
		{"no members", func(g *domain.BookGroupCreateRequest) { g.MaxMemberCount = 0 }, "maxMemberCount"},
		{"password without question", func(g *domain.BookGroupCreateRequest) { g.JoinPassword = "secret" }, "joinQuestion"},
		{"missing start", func(g *domain.BookGroupCreateRequest) { g.StartDate = domain.Date{} }, "startDate"},
		{"invalid book", func(g *domain.BookGroupCreateRequest) { g.Book.ISBN = "" }, "book.isbn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGroup(t)
			tt.mutate(&g)
			errs := ValidateGroupCreate(g)
			if tt.wantField == "" {
				if errs.HasErrors() {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, errs[0].Field)
			}
		})
	}
}

func TestValidateGroupUpdate(t *testing.T) {
	empty := ""
	zero := 0
	three := 3

	if errs := ValidateGroupUpdate(domain.BookGroupUpdateRequest{}); errs.HasErrors() {
		t.Errorf("empty update should be valid, got %v", errs)
	}
	if errs := ValidateGroupUpdate(domain.BookGroupUpdateRequest{MaxMemberCount: &three}); errs.HasErrors() {
		t.Errorf("expected valid, got %v", errs)
	}
	errs := ValidateGroupUpdate(domain.BookGroupUpdateRequest{Title: &empty, MaxMemberCount: &zero})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateComment(t *testing.T) {
	if errs := ValidateComment(domain.CommentCreateRequest{Contents: "nice chapter"}); errs.HasErrors() {
		t.Errorf("expected valid, got %v", errs)
	}
	if errs := ValidateComment(domain.CommentCreateRequest{}); !errs.HasErrors() {
		t.Error("expected empty comment to be rejected")
	}
	long := strings.Repeat("c", CommentMaxLength+1)
	if errs := ValidateComment(domain.CommentCreateRequest{Contents: long}); !errs.HasErrors() {
		t.Error("expected long comment to be rejected")
	}
}

func TestValidationErrorsErr(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Error("expected nil error for empty collection")
	}
	errs.Add("title", "", "title must not be empty")
	errs.Add("isbn", "1", "isbn must be at least 10 characters")
	if errs.Err() == nil {
		t.Fatal("expected error")
	}
	if got := errs.Error(); got != "title: title must not be empty (and 1 more errors)" {
		t.Errorf("unexpected message %q", got)
	}
	fields := errs.FieldErrors()
	if len(fields) != 2 || fields[1].Field != "isbn" || fields[1].Reason == "" {
		t.Errorf("unexpected field errors %+v", fields)
	}
}

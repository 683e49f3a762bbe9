//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// fakeBackend is an in-process RestoManage API with enough state to run full
// user journeys: accounts, per-user carts, orders and reservations. It speaks
// the production API's envelope dialects, including formatted price strings.
type fakeBackend struct {
	mu sync.Mutex

	users        map[string]string // email -> password
	tokens       map[string]string // token -> email
	nextToken    int
	carts        map[string][]cartLine // email -> lines
	discounts    map[string]bool       // email -> WELCOME10 applied
	orders       map[string][]order    // email -> orders
	reservations map[string][]reservation
	reviews      map[string]bool // email:foodID -> reviewed
	nextID       int
}

type cartLine struct {
	id       int
	foodID   int
	quantity int
}

type order struct {
	id            int
	paymentStatus string
	total         float64
	lines         []cartLine
}

type reservation struct {
	id        int
	numPeople int
	time      string
	request   string
	status    string
}

type food struct {
	id         int
	name       string
	category   int
	price      float64
	discounted float64 // 0 = no offer
	rating     float64
}

var menu = []food{
	{id: 1, name: "Margherita", category: 1, price: 12, discounted: 9.6, rating: 4.5},
	{id: 2, name: "Pepperoni", category: 1, price: 14, rating: 4.0},
	{id: 3, name: "Classic Burger", category: 2, price: 8.5, rating: 4.2},
	{id: 4, name: "Cheese Burger", category: 2, price: 9.5, discounted: 8, rating: 3.9},
	{id: 5, name: "Caesar Salad", category: 3, price: 7, rating: 3.5},
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:        map[string]string{},
		tokens:       map[string]string{},
		carts:        map[string][]cartLine{},
		discounts:    map[string]bool{},
		orders:       map[string][]order{},
		reservations: map[string][]reservation{},
		reviews:      map[string]bool{},
		nextID:       100,
	}
}

func price(v float64) string { return fmt.Sprintf("%.2f $", v) }

func foodJSON(f food) map[string]any {
	m := map[string]any{
		"food_id":        f.id,
		"food_name":      f.name,
		"description":    "",
		"price":          price(f.price),
		"average_rating": f.rating,
		"image_url":      fmt.Sprintf("/storage/foods/%d.jpg", f.id),
	}
	if f.discounted > 0 {
		m["price_after_discounts"] = price(f.discounted)
		pct := (1 - f.discounted/f.price) * 100
		m["discounts"] = []map[string]any{{"discount_value": fmt.Sprintf("%.2f %%", pct)}}
	}
	return m
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/user/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Name, Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		defer b.mu.Unlock()
		if _, taken := b.users[req.Email]; taken {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"message": "The given data was invalid.",
				"errors":  map[string]any{"email": []string{"The email has already been taken."}},
			})
			return
		}
		b.users[req.Email] = req.Password
		writeAuth(w, b.issueToken(req.Email))
	})

	mux.HandleFunc("/api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		defer b.mu.Unlock()
		if pw, ok := b.users[req.Email]; !ok || pw != req.Password {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"status": "error", "message": "Invalid credentials.",
			})
			return
		}
		writeAuth(w, b.issueToken(req.Email))
	})

	mux.HandleFunc("/api/user/logout", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Logged out."})
	}))

	mux.HandleFunc("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"category_id": 1, "name": "Pizza"},
			{"category_id": 2, "name": "Burgers"},
			{"category_id": 3, "name": "Salads"},
		}})
	})

	mux.HandleFunc("/api/foods/filter", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var out []food
		for _, f := range menu {
			if c := q.Get("category_id"); c != "" && c != strconv.Itoa(f.category) {
				continue
			}
			if v := q.Get("min_price"); v != "" {
				if min, err := strconv.ParseFloat(v, 64); err == nil && f.price < min {
					continue
				}
			}
			if v := q.Get("max_price"); v != "" {
				if max, err := strconv.ParseFloat(v, 64); err == nil && f.price > max {
					continue
				}
			}
			out = append(out, f)
		}

		const perPage = 2
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		last := (len(out) + perPage - 1) / perPage
		if last < 1 {
			last = 1
		}
		lo := (page - 1) * perPage
		hi := lo + perPage
		if lo > len(out) {
			lo = len(out)
		}
		if hi > len(out) {
			hi = len(out)
		}

		items := make([]map[string]any, 0, hi-lo)
		for _, f := range out[lo:hi] {
			items = append(items, foodJSON(f))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": items,
			"meta": map[string]any{"current_page": page, "last_page": last, "total": len(out)},
		})
	})

	mux.HandleFunc("/api/foods/details/", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/foods/details/"))
		for _, f := range menu {
			if f.id == id {
				writeJSON(w, http.StatusOK, map[string]any{"data": foodJSON(f)})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": "Food not found."})
	})

	mux.HandleFunc("/api/foods/discounts", func(w http.ResponseWriter, r *http.Request) {
		var items []map[string]any
		for _, f := range menu {
			if f.discounted > 0 {
				items = append(items, foodJSON(f))
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": items})
	})

	mux.HandleFunc("/api/review/addReviews", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		var req struct {
			FoodID int `json:"food_id"`
			Rating int `json:"rating"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		key := email + ":" + strconv.Itoa(req.FoodID)
		if b.reviews[key] {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false, "message": "You have already reviewed this food.",
			})
			return
		}
		b.reviews[key] = true
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "message": "Review added successfully."})
	}))

	mux.HandleFunc("/api/cart/showCart", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		items := make([]map[string]any, 0)
		for _, line := range b.carts[email] {
			f := findFood(line.foodID)
			items = append(items, map[string]any{
				"cart_item_id": line.id,
				"food_id":      f.id,
				"food_name":    f.name,
				"food_price":   price(f.price),
				"food_image":   fmt.Sprintf("/storage/foods/%d.jpg", f.id),
				"quantity":     line.quantity,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"cart_items":  items,
				"total_price": price(b.cartTotal(email)),
			},
		})
	}))

	mux.HandleFunc("/api/cart/addToCart", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		var req struct {
			FoodID   int `json:"food_id"`
			Quantity int `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		lines := b.carts[email]
		merged := false
		for i := range lines {
			if lines[i].foodID == req.FoodID {
				lines[i].quantity += req.Quantity
				merged = true
			}
		}
		if !merged {
			b.nextID++
			lines = append(lines, cartLine{id: b.nextID, foodID: req.FoodID, quantity: req.Quantity})
		}
		b.carts[email] = lines
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Food added to cart successfully."})
	}))

	mux.HandleFunc("/api/cart/updateItemCart/", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/cart/updateItemCart/"))
		var req struct {
			Quantity int `json:"quantity"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		for i := range b.carts[email] {
			if b.carts[email][i].id == id {
				b.carts[email][i].quantity = req.Quantity
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))

	mux.HandleFunc("/api/cart/deleteItemCart/", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/cart/deleteItemCart/"))
		lines := b.carts[email][:0]
		for _, l := range b.carts[email] {
			if l.id != id {
				lines = append(lines, l)
			}
		}
		b.carts[email] = lines
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))

	mux.HandleFunc("/api/cart/applyDiscountCode", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		var req struct {
			Code string `json:"discount_code"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		if req.Code != "WELCOME10" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false, "message": "Invalid discount code.",
			})
			return
		}
		b.discounts[email] = true
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Discount applied."})
	}))

	mux.HandleFunc("/api/order/create", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		if len(b.carts[email]) == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": "Your cart is empty."})
			return
		}
		b.nextID++
		o := order{id: b.nextID, paymentStatus: "pending", total: b.cartTotal(email), lines: b.carts[email]}
		b.orders[email] = append(b.orders[email], o)
		b.carts[email] = nil
		b.discounts[email] = false
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   map[string]any{"approve_url": fmt.Sprintf("https://pay.example/approve/%d", o.id)},
		})
	}))

	mux.HandleFunc("/api/order/myOrders", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		items := make([]map[string]any, 0)
		for _, o := range b.orders[email] {
			items = append(items, map[string]any{
				"order_id":              o.id,
				"order_status":          "processing",
				"payment_status":        o.paymentStatus,
				"price_after_discounts": price(o.total),
				"created_at":            "2026-08-27T12:00:00.000000Z",
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": items})
	}))

	mux.HandleFunc("/api/order/myOrderDetails/", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/order/myOrderDetails/"))
		for _, o := range b.orders[email] {
			if o.id != id {
				continue
			}
			items := make([]map[string]any, 0)
			for _, l := range o.lines {
				f := findFood(l.foodID)
				items = append(items, map[string]any{
					"order_item_id":         l.id,
					"quantity":              l.quantity,
					"price":                 price(f.price),
					"price_after_discounts": price(f.effectivePrice()),
					"food": map[string]any{
						"name":      f.name,
						"image_url": fmt.Sprintf("/storage/foods/%d.jpg", f.id),
					},
				})
			}
			writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": items})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"status": "error", "message": "Order not found."})
	}))

	mux.HandleFunc("/api/order/retry-payment/", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/order/retry-payment/"))
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   map[string]any{"approve_url": fmt.Sprintf("https://pay.example/approve/%d", id)},
		})
	}))

	mux.HandleFunc("/api/reservation/showReservation", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		items := make([]map[string]any, 0)
		for _, res := range b.reservations[email] {
			items = append(items, map[string]any{
				"reservation_id":   res.id,
				"num_people":       res.numPeople,
				"reservation_time": res.time,
				"special_request":  res.request,
				"status":           res.status,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": items})
	}))

	mux.HandleFunc("/api/reservation/create", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		var req struct {
			NumPeople int    `json:"num_people"`
			Time      string `json:"reservation_time"`
			Request   string `json:"special_request"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		b.nextID++
		b.reservations[email] = append(b.reservations[email], reservation{
			id: b.nextID, numPeople: req.NumPeople, time: req.Time, request: req.Request, status: "processing",
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": map[string]any{}})
	}))

	mux.HandleFunc("/api/reservation/delete/", b.authed(func(w http.ResponseWriter, r *http.Request, email string) {
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/reservation/delete/"))
		list := b.reservations[email][:0]
		for _, res := range b.reservations[email] {
			if res.id != id {
				list = append(list, res)
			}
		}
		b.reservations[email] = list
		writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
	}))

	return mux
}

func (f food) effectivePrice() float64 {
	if f.discounted > 0 {
		return f.discounted
	}
	return f.price
}

func (b *fakeBackend) cartTotal(email string) float64 {
	var total float64
	for _, line := range b.carts[email] {
		total += findFood(line.foodID).effectivePrice() * float64(line.quantity)
	}
	if b.discounts[email] {
		total *= 0.9
	}
	return total
}

func (b *fakeBackend) issueToken(email string) string {
	b.nextToken++
	tok := "tok-" + strconv.Itoa(b.nextToken)
	b.tokens[tok] = email
	return tok
}

// authed wraps a handler with bearer-token auth and the backend lock.
func (b *fakeBackend) authed(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		email, ok := b.tokens[tok]
		if !ok || tok == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			return
		}
		fn(w, r, email)
	}
}

func findFood(id int) food {
	for _, f := range menu {
		if f.id == id {
			return f
		}
	}
	return food{}
}

func writeAuth(w http.ResponseWriter, token string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   map[string]any{"authorization": map[string]any{"token": token, "type": "bearer"}},
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"demand_generator/internal/generator"
	"demand_generator/internal/vdi"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and routes generate requests to the
// generator.
type Handler struct {
	hub *Hub
	gen *generator.Generator
}

func NewHandler(hub *Hub, gen *generator.Generator) *Handler {
	return &Handler{hub: hub, gen: gen}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.hub.Register(client)
	go client.writePump()

	// Send the profile catalog
	h.sendCatalog(client)

	// Read messages from client
	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("Invalid message: %v", err)
		return
	}

	switch env.Type {
	case TypeProfileElectrical:
		var p ElectricalRequestPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid electrical payload: %v", err)
			return
		}
		h.run(c, p.ID, func(cb generator.Callback) error {
			return h.gen.StreamElectrical(p.ElectricalRequest, cb)
		})

	case TypeProfileHeat:
		var p HeatRequestPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid heat payload: %v", err)
			return
		}
		h.run(c, p.ID, func(cb generator.Callback) error {
			return h.gen.StreamHeat(p.HeatRequest, cb)
		})

	case TypeProfileVDI:
		var p VDIRequestPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid vdi payload: %v", err)
			return
		}
		h.run(c, p.ID, func(cb generator.Callback) error {
			return h.gen.StreamVDI(p.VDIRequest, cb)
		})

	case TypeProfileIndustrial:
		var p IndustrialRequestPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			log.Printf("Invalid industrial payload: %v", err)
			return
		}
		h.run(c, p.ID, func(cb generator.Callback) error {
			return h.gen.StreamIndustrial(p.IndustrialRequest, cb)
		})

	default:
		log.Printf("Unknown message type: %s", env.Type)
	}
}

// run executes one generation stream. The stream broadcasts to all clients;
// failures go back to the requesting client only.
func (h *Handler) run(c *Client, id string, generate func(generator.Callback) error) {
	if err := generate(NewBridge(h.hub, id)); err != nil {
		log.Printf("Generation failed: %v", err)
		h.sendError(c, id, err)
	}
}

func (h *Handler) sendError(c *Client, id string, genErr error) {
	msg, err := NewEnvelope(TypeError, ErrorPayload{ID: id, Message: genErr.Error()})
	if err != nil {
		return
	}
	c.enqueue(msg)
}

func (h *Handler) sendCatalog(c *Client) {
	msg, err := h.catalogMessage()
	if err != nil {
		log.Printf("Error creating catalog message: %v", err)
		return
	}
	c.enqueue(msg)
}

func (h *Handler) catalogMessage() ([]byte, error) {
	payload := CatalogPayload{
		ElectricalProfiles: h.gen.ElectricalProfiles(),
		HeatProfiles:       h.gen.HeatProfiles(),
		HouseTypes:         []string{string(vdi.SingleFamily), string(vdi.MultiFamily)},
		Holidays:           h.gen.HolidayCount(),
	}
	if start, end, ok := h.gen.WeatherRange(); ok {
		payload.Weather = &WeatherRangeInfo{
			Start: start.Format(time.RFC3339),
			End:   end.Format(time.RFC3339),
		}
	}
	return NewEnvelope(TypeCatalog, payload)
}

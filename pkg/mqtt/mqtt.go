// Package mqtt provides MQTT communication capabilities for the bot.
// It publishes moderation events and answers request/response queries.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	anticrash "github.com/PancyStudios/BaritoneGo/pkg/errors"
	"github.com/PancyStudios/BaritoneGo/pkg/logger"
	"github.com/PancyStudios/BaritoneGo/pkg/moderation"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Topic layout
const (
	requestPrefix  = "baritone/request/"
	responsePrefix = "baritone/response/"
	eventPrefix    = "baritone/events/"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// ErrNotConnected is returned when publishing without a broker connection
var ErrNotConnected = errors.New("mqtt: not connected")

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// MqttCommunicator handles MQTT communication. Request handlers are kept so
// they can be subscribed again after every (re)connect.
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string

	mu       sync.Mutex
	handlers map[string]mqtt.MessageHandler
}

var _ moderation.Publisher = (*MqttCommunicator)(nil)

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(host, port, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(host, port, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a communicator and starts connecting. A broker
// that is down at startup is retried in the background.
func NewMqttCommunicator(host, port, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{
		clientID: clientID,
		handlers: make(map[string]mqtt.MessageHandler),
	}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
			mc.resubscribe()
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		logger.Warn("Broker MQTT no disponible, reintentando en segundo plano", "MQTT")
	} else if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc != nil && mc.client != nil && mc.client.IsConnected()
}

// Publish sends a JSON message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	if !mc.IsConnected() {
		return ErrNotConnected
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publishing to %s timed out", topic)
	}
	return token.Error()
}

// PublishEvent publishes a moderation event on baritone/events/<action>
func (mc *MqttCommunicator) PublishEvent(event moderation.Event) error {
	return mc.Publish(eventTopic(event.Action), event)
}

func eventTopic(action string) string {
	return eventPrefix + action
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic. Responses go to
// baritone/response/<topic>/<correlationId>. While the broker is unreachable
// the subscription is made on the next connect.
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	topic := requestPrefix + requestTopic

	handler := func(c mqtt.Client, msg mqtt.Message) {
		defer anticrash.RecoverMiddleware()()

		responseTopic, response, err := buildResponse(msg.Topic(), msg.Payload(), callback)
		if err != nil {
			logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
			return
		}

		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
		}
	}

	mc.mu.Lock()
	if mc.handlers == nil {
		mc.handlers = make(map[string]mqtt.MessageHandler)
	}
	mc.handlers[topic] = handler
	mc.mu.Unlock()

	if !mc.IsConnected() {
		logger.Warn(fmt.Sprintf("Suscripción a %s pendiente de conexión", topic), "MQTT")
		return
	}
	mc.subscribe(topic, handler)
}

// resubscribe subscribes every registered handler again. The session is
// clean, so the broker forgets subscriptions on each reconnect.
func (mc *MqttCommunicator) resubscribe() {
	mc.mu.Lock()
	handlers := make(map[string]mqtt.MessageHandler, len(mc.handlers))
	for topic, h := range mc.handlers {
		handlers[topic] = h
	}
	mc.mu.Unlock()

	for topic, h := range handlers {
		mc.subscribe(topic, h)
	}
}

func (mc *MqttCommunicator) subscribe(topic string, handler mqtt.MessageHandler) {
	token := mc.client.Subscribe(topic, 0, handler)
	if !token.WaitTimeout(connectTimeout) {
		logger.Warn(fmt.Sprintf("Suscripción a %s sin confirmar", topic), "MQTT")
		return
	}
	if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", topic, token.Error()), "MQTT")
	}
}

// buildResponse decodes a request received on receivedTopic, runs callback
// and returns the response with the topic it must be published on
func buildResponse(receivedTopic string, raw []byte, callback RequestHandler) (string, MqttResponse, error) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		return "", MqttResponse{}, err
	}
	if request.CorrelationID == "" {
		return "", MqttResponse{}, errors.New("request without correlationId")
	}

	actualTopic := strings.TrimPrefix(receivedTopic, requestPrefix)
	responseTopic := fmt.Sprintf("%s%s/%s", responsePrefix, actualTopic, request.CorrelationID)

	payloadMap := make(map[string]interface{})
	if pm, ok := request.Payload.(map[string]interface{}); ok {
		payloadMap = pm
	}
	payloadMap["_topic"] = actualTopic

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := callback(payloadMap)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}
	return responseTopic, response, nil
}

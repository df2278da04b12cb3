// README: User-facing workflow messages in French (default), English and Russian.
package i18n

import "golang.org/x/text/language"

type Key string

const (
	InvalidEmail        Key = "invalid_email"
	NoPrice             Key = "no_price"
	SelectSuggestions   Key = "select_suggestions"
	RouteFailed         Key = "route_failed"
	MapsUnavailable     Key = "maps_unavailable"
	PaymentInitFailed   Key = "payment_init_failed"
	PaymentDeclined     Key = "payment_declined"
	EmailFailed         Key = "email_failed"
	BookingConfirmed    Key = "booking_confirmed"
	ConfirmationMessage Key = "confirmation_message"
	CheckoutDisabled    Key = "checkout_disabled"
	GeoUnsupported      Key = "geo_unsupported"
	GeoNoAddress        Key = "geo_no_address"
	GeoPermissionDenied Key = "geo_permission_denied"
	GeoTimeout          Key = "geo_timeout"
	GeoGeocoding        Key = "geo_geocoding"
	BookingError        Key = "booking_error"
	SessionExpired      Key = "session_expired"
	InvalidStep         Key = "invalid_step"
	Conflict            Key = "conflict"
	InvalidRequest      Key = "invalid_request"
	TooManyRequests     Key = "too_many_requests"
)

var catalog = map[language.Tag]map[Key]string{
	language.French: {
		InvalidEmail:        "Veuillez saisir une adresse email valide",
		NoPrice:             "Veuillez sélectionner un trajet pour calculer le prix",
		SelectSuggestions:   "Veuillez sélectionner les adresses parmi les suggestions",
		RouteFailed:         "Impossible de calculer l'itinéraire. Veuillez vérifier les adresses.",
		MapsUnavailable:     "Impossible de charger Google Maps. Veuillez vérifier votre connexion internet et réessayer.",
		PaymentInitFailed:   "Erreur lors de l'initialisation du paiement. Veuillez réessayer.",
		PaymentDeclined:     "Le paiement n'a pas abouti. Veuillez réessayer avec une autre carte.",
		EmailFailed:         "Problème lors de l'envoi de l'email. Veuillez nous contacter directement.",
		BookingConfirmed:    "Réservation Confirmée !",
		ConfirmationMessage: "Votre demande de réservation a été envoyée. Nous vous contacterons bientôt pour confirmer votre trajet.",
		CheckoutDisabled:    "Erreur de configuration de paiement. Veuillez contacter le support.",
		GeoUnsupported:      "La géolocalisation n'est pas supportée par votre navigateur.",
		GeoNoAddress:        "Aucune adresse trouvée pour votre position.",
		GeoPermissionDenied: "Accès à votre position refusé ou position indisponible.",
		GeoTimeout:          "La demande de géolocalisation a expiré.",
		GeoGeocoding:        "Erreur de géolocalisation : impossible de déterminer l'adresse.",
		BookingError:        "Une erreur est survenue lors de l'envoi de la réservation",
		SessionExpired:      "Cette session de réservation a expiré. Veuillez recommencer.",
		InvalidStep:         "Cette action n'est pas disponible à cette étape de la réservation.",
		Conflict:            "La réservation a été modifiée entre-temps. Veuillez réessayer.",
		InvalidRequest:      "Requête invalide.",
		TooManyRequests:     "Trop de requêtes. Veuillez patienter un instant.",
	},
	language.English: {
		InvalidEmail:        "Please enter a valid email address",
		NoPrice:             "Please select a route to calculate the price",
		SelectSuggestions:   "Please select addresses from the suggestions",
		RouteFailed:         "Unable to calculate the route. Please check the addresses.",
		MapsUnavailable:     "Failed to load Google Maps. Please check your internet connection and try again.",
		PaymentInitFailed:   "Error initializing payment. Please try again.",
		PaymentDeclined:     "The payment did not go through. Please try another card.",
		EmailFailed:         "Problem sending the email. Please contact us directly.",
		BookingConfirmed:    "Booking Confirmed!",
		ConfirmationMessage: "Your booking request has been sent. We will contact you soon to confirm your trip.",
		CheckoutDisabled:    "Payment configuration error. Please contact support.",
		GeoUnsupported:      "Geolocation is not supported by your browser.",
		GeoNoAddress:        "No address found for your location.",
		GeoPermissionDenied: "Location access was denied or your position is unavailable.",
		GeoTimeout:          "The geolocation request timed out.",
		GeoGeocoding:        "Geolocation error: unable to determine the address.",
		BookingError:        "An error occurred while sending the booking",
		SessionExpired:      "This booking session has expired. Please start again.",
		InvalidStep:         "This action is not available at this step of the booking.",
		Conflict:            "The booking was changed in the meantime. Please try again.",
		InvalidRequest:      "Invalid request.",
		TooManyRequests:     "Too many requests. Please wait a moment.",
	},
	language.Russian: {
		InvalidEmail:        "Пожалуйста, введите действительный адрес электронной почты",
		NoPrice:             "Пожалуйста, выберите маршрут для расчета цены",
		SelectSuggestions:   "Пожалуйста, выберите адреса из предложенных вариантов",
		RouteFailed:         "Не удалось рассчитать маршрут. Пожалуйста, проверьте адреса.",
		MapsUnavailable:     "Не удалось загрузить Google Maps. Пожалуйста, проверьте подключение к интернету и попробуйте снова.",
		PaymentInitFailed:   "Ошибка при инициализации платежа. Пожалуйста, попробуйте снова.",
		PaymentDeclined:     "Платеж не прошел. Пожалуйста, попробуйте другую карту.",
		EmailFailed:         "Проблема при отправке электронной почты. Пожалуйста, свяжитесь с нами напрямую.",
		BookingConfirmed:    "Бронирование Подтверждено!",
		ConfirmationMessage: "Ваш запрос на бронирование отправлен. Мы свяжемся с вами в ближайшее время для подтверждения поездки.",
		CheckoutDisabled:    "Ошибка настройки платежей. Пожалуйста, свяжитесь со службой поддержки.",
		GeoUnsupported:      "Геолокация не поддерживается вашим браузером.",
		GeoNoAddress:        "Адрес для вашего местоположения не найден.",
		GeoPermissionDenied: "Доступ к местоположению запрещен или местоположение недоступно.",
		GeoTimeout:          "Время ожидания геолокации истекло.",
		GeoGeocoding:        "Ошибка геолокации: не удалось определить адрес.",
		BookingError:        "Произошла ошибка при отправке бронирования",
		SessionExpired:      "Сессия бронирования истекла. Пожалуйста, начните заново.",
		InvalidStep:         "Это действие недоступно на данном этапе бронирования.",
		Conflict:            "Бронирование было изменено. Пожалуйста, попробуйте снова.",
		InvalidRequest:      "Некорректный запрос.",
		TooManyRequests:     "Слишком много запросов. Пожалуйста, подождите.",
	},
}

// Default is the display language when nothing else matches.
var Default = language.French

var supported = []language.Tag{language.French, language.English, language.Russian}

var matcher = language.NewMatcher(supported)

// Negotiate picks a supported language from an explicit choice (e.g. ?lang=en)
// and falls back to the Accept-Language header.
func Negotiate(explicit, acceptLanguage string) language.Tag {
	if explicit != "" {
		if tag, err := language.Parse(explicit); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return supported[idx]
			}
		}
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return supported[idx]
}

// T returns the message for key in tag, falling back to French and then to the key.
func T(tag language.Tag, key Key) string {
	msg, ok := catalog[tag][key]
	if !ok {
		msg, ok = catalog[Default][key]
	}
	if !ok {
		return string(key)
	}
	return msg
}

// Lang returns the short code ("fr", "en", "ru") for tag.
func Lang(tag language.Tag) string {
	base, _ := tag.Base()
	return base.String()
}

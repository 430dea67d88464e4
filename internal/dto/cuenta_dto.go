package dto

type CrearCuentaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2"`
	Ambito string `json:"ambito" validate:"required,oneof=negocio personal"`
}

type ActualizarCuentaRequest struct {
	Nombre string `json:"nombre" validate:"omitempty,min=2"`
	Ambito string `json:"ambito" validate:"omitempty,oneof=negocio personal"`
}

type CuentaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Ambito string `json:"ambito"`
	Activa bool   `json:"activa"`
}

package rpcServer

import (
	"net/http"

	"github.com/Layr-Labs/stake-vault/pkg/rpcServer/rpcTypes"
)

func (rpc *RpcServer) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rpc.writeJson(w, http.StatusOK, &rpcTypes.HealthResponse{Status: "SERVING"})
}
